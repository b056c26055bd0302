package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse_Defaults(t *testing.T) {
	p := parseQuery(t, "")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParse_ClampsOutOfRangeValues(t *testing.T) {
	p := parseQuery(t, "page=-3&limit=10000")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = parseQuery(t, "page=0&limit=0")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParse_ComputesOffset(t *testing.T) {
	p := parseQuery(t, "page=3&limit=25")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
}
