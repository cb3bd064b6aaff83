package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/common"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

const noReviewersSuggested = "no reviewers suggested"

type ChangeParams struct {
	// Change is the change number or its key.
	Change string `uri:"change" binding:"required"`
}

func (p *ChangeParams) apply(req *reviewers.Request) {
	id, err := strconv.Atoi(p.Change)
	if err == nil && id > 0 {
		req.ChangeID = model.ChangeID(id)
	} else {
		req.ChangeKey = p.Change
	}
}

type SuggestParams struct {
	ChangeParams
	PatchSet int  `uri:"ps" binding:"required,min=1"`
	Post     bool `form:"post"`
}

func (s *server) initChanges(r *gin.Engine) {
	r.POST("/changes/:change/revisions/:ps/reviewers-by-blame", postUQ[SuggestParams](s.suggest))
	r.GET("/changes/:change/reviewers", getU[ChangeParams](s.listReviewers))
}

func (s *server) suggest(ctx context.Context, params *SuggestParams) (any, error) {
	req := reviewers.Request{
		PatchSet: params.PatchSet,
		Post:     params.Post,
	}
	params.apply(&req)

	ids, err := s.suggester.Suggest(ctx, req)
	if errors.Is(err, reviewers.ErrChangeClosed) {
		return nil, newHttpError(http.StatusConflict, err.Error())
	} else if err != nil {
		return nil, newHttpError(http.StatusInternalServerError, noReviewersSuggested)
	}

	list := reviewers.SortedIDs(ids)

	message := noReviewersSuggested
	if len(list) > 0 {
		message = common.Count(len(list), "reviewer") + " suggested"
	}

	return gin.H{
		"reviewers": list,
		"message":   message,
	}, nil
}

func (s *server) listReviewers(ctx context.Context, params *ChangeParams) (any, error) {
	var req reviewers.Request
	params.apply(&req)

	var change *model.Change
	var err error
	if req.ChangeID != 0 {
		change, err = s.storage.LoadChange(ctx, req.ChangeID)
	} else {
		change, err = s.storage.LoadChangeByKey(ctx, req.ChangeKey)
	}
	if err != nil {
		return nil, err
	}

	ids, err := s.storage.ListReviewers(ctx, change.ID)
	if err != nil {
		return nil, err
	}

	var result []gin.H
	for _, id := range ids {
		account, err := s.storage.LoadAccount(ctx, id)
		if errors.Is(err, storages.ErrNotFound) {
			result = append(result, gin.H{"id": id})
			continue
		} else if err != nil {
			return nil, err
		}

		result = append(result, s.toAccount(account))
	}

	return gin.H{
		"change":    change.ID,
		"project":   change.Project,
		"reviewers": lo.Ternary(result == nil, []gin.H{}, result),
	}, nil
}

func (s *server) toAccount(a *model.Account) gin.H {
	return gin.H{
		"id":       a.ID,
		"username": a.Username,
		"fullName": a.FullName,
		"active":   a.Active,
	}
}
