package tests

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Jaza/copernicus-api/cmd/httpserver"
	"github.com/Jaza/copernicus-api/internal/accountrepo"
	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/randompkg"
)

var server *httpserver.Server

// TestMain calls testMain and passes the returned exit code to os.Exit(). The reason
// that TestMain is basically a wrapper around testMain is because os.Exit() does not
// respect deferred functions, so this configuration allows for a deferred function.
func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

// testMain returns an integer denoting an exit code to be returned and used in
// TestMain. The exit code 0 denotes success, all other codes denote failure.
func testMain(m *testing.M) int {
	gin.SetMode(gin.TestMode)

	config := configpkg.Config{
		JWTSecret:          randompkg.String(32),
		TokenType:          configpkg.TokenJWT,
		StoreDriver:        configpkg.StoreMemory,
		CORSAllowedOrigins: []string{"*"},
	}

	var err error

	server, err = httpserver.New(accountrepo.NewRepoMemory(), zerolog.Nop(), config)
	if err != nil {
		return 1
	}

	return m.Run()
}
