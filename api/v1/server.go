package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /jobs)
	ListJobs(c *gin.Context)
	// (POST /jobs)
	SubmitJob(c *gin.Context)
	// (POST /jobs/{id}/cancel)
	CancelJob(c *gin.Context, id string)
	// (POST /jobs/{id}/pause)
	PauseJob(c *gin.Context, id string)
	// (GET /stats)
	GetStats(c *gin.Context, params GetStatsParams)
	// (GET /executions)
	ListExecutions(c *gin.Context, params ListExecutionsParams)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (siw *ServerInterfaceWrapper) ListJobs(c *gin.Context) {
	siw.Handler.ListJobs(c)
}

func (siw *ServerInterfaceWrapper) SubmitJob(c *gin.Context) {
	siw.Handler.SubmitJob(c)
}

func (siw *ServerInterfaceWrapper) CancelJob(c *gin.Context) {
	id, ok := siw.pathID(c)
	if !ok {
		return
	}
	siw.Handler.CancelJob(c, id)
}

func (siw *ServerInterfaceWrapper) PauseJob(c *gin.Context) {
	id, ok := siw.pathID(c)
	if !ok {
		return
	}
	siw.Handler.PauseJob(c, id)
}

func (siw *ServerInterfaceWrapper) GetStats(c *gin.Context) {
	var params GetStatsParams

	if err := runtime.BindQueryParameter("form", true, false, "rank", c.Request.URL.Query(), &params.Rank); err != nil {
		badParameter(c, "rank", err)
		return
	}

	siw.Handler.GetStats(c, params)
}

func (siw *ServerInterfaceWrapper) ListExecutions(c *gin.Context) {
	var params ListExecutionsParams
	query := c.Request.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "status", query, &params.Status); err != nil {
		badParameter(c, "status", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "id", query, &params.Id); err != nil {
		badParameter(c, "id", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		badParameter(c, "limit", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", query, &params.Offset); err != nil {
		badParameter(c, "offset", err)
		return
	}

	siw.Handler.ListExecutions(c, params)
}

func (siw *ServerInterfaceWrapper) pathID(c *gin.Context) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		badParameter(c, "id", err)
		return "", false
	}
	return id, true
}

func badParameter(c *gin.Context, name string, err error) {
	c.JSON(http.StatusBadRequest, Error{Error: fmt.Sprintf("invalid format for parameter %s: %s", name, err)})
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/jobs", wrapper.ListJobs)
	router.POST("/jobs", wrapper.SubmitJob)
	router.POST("/jobs/:id/cancel", wrapper.CancelJob)
	router.POST("/jobs/:id/pause", wrapper.PauseJob)
	router.GET("/stats", wrapper.GetStats)
	router.GET("/executions", wrapper.ListExecutions)
}
