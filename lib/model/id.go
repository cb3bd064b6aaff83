package model

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/teris-io/shortid"
	"golang.org/x/exp/rand"
)

type AccountID int

func (i AccountID) String() string {
	return fmt.Sprintf("%v", int(i))
}

func StringToAccountID(id string) (AccountID, error) {
	r, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid account id: %v", id)
	}
	return AccountID(r), nil
}

type ChangeID int

func (i ChangeID) String() string {
	return fmt.Sprintf("%v", int(i))
}

func StringToChangeID(id string) (ChangeID, error) {
	r, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid change id: %v", id)
	}
	return ChangeID(r), nil
}

// PassID identifies one scoring pass in the logs.
type PassID string

func NewPassID() PassID {
	return PassID(shortid.MustGenerate())
}

func init() {
	sid := shortid.MustNew(0, "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_.", rand.Uint64())
	shortid.SetDefault(sid)
}
