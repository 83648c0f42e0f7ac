package generaldelivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHelloWorld(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.GET("/", HelloWorld)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	if got := recorder.Body.String(); got != Greeting {
		t.Errorf("body = %q, want %q", got, Greeting)
	}
}
