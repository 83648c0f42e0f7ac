// Package httpserver manages server creation and api routing.
package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	httpSwagger "github.com/swaggo/http-swagger"

	// Registers the OpenAPI document.
	_ "github.com/Jaza/copernicus-api/docs"

	"github.com/Jaza/copernicus-api/internal/accountdelivery"
	"github.com/Jaza/copernicus-api/internal/accountservice"
	"github.com/Jaza/copernicus-api/internal/generaldelivery"
	"github.com/Jaza/copernicus-api/internal/middleware"
	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/errorspkg"
	"github.com/Jaza/copernicus-api/pkg/tokenpkg"
)

// Server holds the routes, the CORS wrapped handler serving them and configuration.
type Server struct {
	Engine     *gin.Engine
	Handler    http.Handler
	TokenMaker tokenpkg.Maker
	Config     configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler.ServeHTTP(w, r)
}

// NewTokenMaker returns the token maker selected by TOKEN_TYPE, keyed with JWT_SECRET.
func NewTokenMaker(config configpkg.Config) (tokenpkg.Maker, error) {
	switch config.TokenType {
	case configpkg.TokenJWT, "":
		return tokenpkg.NewJWTMaker(config.JWTSecret)
	case configpkg.TokenPaseto:
		return tokenpkg.NewPasetoMaker(config.JWTSecret)
	default:
		return nil, fmt.Errorf("%w: %q", errorspkg.ErrUnknownTokenType, config.TokenType)
	}
}

// New creates Server type with instantiated domains and routes on top of the account store.
func New(accountRepo accountservice.Repo, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := NewTokenMaker(config)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	accountService := accountservice.New(accountRepo)
	accountHandler := accountdelivery.NewHandler(accountService)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Recovery())

	engine.GET("/", generaldelivery.HelloWorld)

	engine.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	engine.GET("/swagger-html/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	engine.GET("/swagger-json", serveDoc)

	authRoutes := engine.Group("/external-users/:externalUserId/accounts", middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/", accountHandler.List)
	authRoutes.POST("/", accountHandler.Create)
	authRoutes.GET("/:id/", accountHandler.Get)
	authRoutes.PATCH("/:id/", accountHandler.Update)
	authRoutes.DELETE("/:id/", accountHandler.Delete)

	c := cors.New(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})

	server := &Server{
		Engine:     engine,
		Handler:    c.Handler(engine),
		TokenMaker: tokenMaker,
		Config:     config,
	}

	return server, nil
}

func serveDoc(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
