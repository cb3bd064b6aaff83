package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const ChangesRefPrefix = "refs/changes/"

type PatchSet struct {
	ChangeID ChangeID
	Number   int
	Revision string
	Uploader AccountID
	Draft    bool
}

func (p *PatchSet) RefName() string {
	return PatchSetRefName(p.ChangeID, p.Number)
}

func (p *PatchSet) String() string {
	return fmt.Sprintf("%v/%v", p.ChangeID, p.Number)
}

// PatchSetRefName returns refs/changes/NN/<change>/<patch set>, where NN is
// the last two digits of the change number.
func PatchSetRefName(change ChangeID, patchSet int) string {
	return fmt.Sprintf("%v%02d/%d/%d", ChangesRefPrefix, int(change)%100, int(change), patchSet)
}

func IsChangeRef(refName string) bool {
	return strings.HasPrefix(refName, ChangesRefPrefix)
}

// ParsePatchSetRef is the inverse of PatchSetRefName.
func ParsePatchSetRef(refName string) (ChangeID, int, error) {
	if !IsChangeRef(refName) {
		return 0, 0, errors.Errorf("not a change ref: %v", refName)
	}

	parts := strings.Split(strings.TrimPrefix(refName, ChangesRefPrefix), "/")
	if len(parts) != 3 {
		return 0, 0, errors.Errorf("not a patch set ref: %v", refName)
	}

	change, err := strconv.Atoi(parts[1])
	if err != nil || change <= 0 {
		return 0, 0, errors.Errorf("invalid change number in ref: %v", refName)
	}

	ps, err := strconv.Atoi(parts[2])
	if err != nil || ps <= 0 {
		return 0, 0, errors.Errorf("invalid patch set number in ref: %v", refName)
	}

	shard, err := strconv.Atoi(parts[0])
	if err != nil || shard != change%100 {
		return 0, 0, errors.Errorf("invalid shard in ref: %v", refName)
	}

	return ChangeID(change), ps, nil
}
