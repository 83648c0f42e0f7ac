// Package generaldelivery serves the routes that are not tied to a domain entity.
package generaldelivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Greeting is the body of the root route.
const Greeting = "Copernicus, like Galileo, had this crazy outlandish idea, back in the " +
	"day, that the Earth moves around the Sun, not vice versa. It'll catch on " +
	"one day."

// HelloWorld answers the root route with the greeting text.
//
//	@Summary	Greeting
//	@Tags		General
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/ [get]
func HelloWorld(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}
