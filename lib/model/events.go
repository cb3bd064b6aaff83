package model

import "github.com/go-git/go-git/v5/plumbing"

type PatchSetCreatedEvent struct {
	Project   string   `json:"project" binding:"required"`
	ChangeKey string   `json:"changeKey"`
	ChangeID  ChangeID `json:"change" binding:"required"`
	PatchSet  int      `json:"patchSet" binding:"required"`
	Revision  string   `json:"revision" binding:"required"`
	RefName   string   `json:"refName"`
}

type RefUpdate struct {
	RefName     string `json:"refName" binding:"required"`
	OldObjectID string `json:"oldObjectId"`
	NewObjectID string `json:"newObjectId" binding:"required"`
}

func (u *RefUpdate) IsDelete() bool {
	return u.NewObjectID == "" || u.NewObjectID == plumbing.ZeroHash.String()
}

type RefUpdatedEvent struct {
	Project string      `json:"project" binding:"required"`
	Updates []RefUpdate `json:"updates" binding:"required,dive"`
}
