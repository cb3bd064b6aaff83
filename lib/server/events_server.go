package server

import (
	"github.com/gin-gonic/gin"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

func (s *server) initEvents(r *gin.Engine) {
	r.POST("/events/patchset-created", acceptJ[model.PatchSetCreatedEvent](s.patchSetCreated))
	r.POST("/events/ref-updated", acceptJ[model.RefUpdatedEvent](s.refUpdated))
}

func (s *server) patchSetCreated(e *model.PatchSetCreatedEvent) (any, error) {
	queued, err := s.listener.OnPatchSetCreated(e)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"queued": queued,
	}, nil
}

func (s *server) refUpdated(e *model.RefUpdatedEvent) (any, error) {
	queued, err := s.listener.OnRefUpdated(e)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"queued": queued,
	}, nil
}
