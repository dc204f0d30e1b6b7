package handlers

import (
	"github.com/kubev2v/jobqueue/internal/services"
)

type Handler struct {
	jobSrv *services.JobService
}

func New(jobSrv *services.JobService) *Handler {
	return &Handler{
		jobSrv: jobSrv,
	}
}
