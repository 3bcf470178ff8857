package web

import (
	"context"
	"net/http"
	"os"

	"bitbucket.org/olympichub/supplier-hub/internal/tools/middleware"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// OpenapiValidator validates inbound requests against the served document.
// Requests for paths the document does not describe pass through untouched.
// A missing or broken document disables validation instead of taking the
// service down.
func OpenapiValidator() gin.HandlerFunc {
	location := os.Getenv("OPENAPI_LOCATION")
	if location == "" {
		location = "./api/openapi.json"
	}

	noop := func(c *gin.Context) {}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}

	doc, err := loader.LoadFromFile(location)
	if err != nil {
		return noop
	}

	if err := doc.Validate(context.Background()); err != nil {
		return noop
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return noop
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			middleware.HandleError(c, http.StatusBadRequest, "Request does not match API schema", err)
			c.Abort()
			return
		}

		c.Next()
	}
}
