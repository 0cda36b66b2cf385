package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/types"
)

// LoadVotePlan reads the vote plan statuses from source and returns the one
// selected by id, see SelectVotePlan. An empty source reads standard input.
func LoadVotePlan(source string, id *types.VotePlanID) (*types.VotePlan, error) {
	var plans []*types.VotePlan
	if err := withSource(source, func(r io.Reader) error {
		var err error
		plans, err = DecodeVotePlans(r)
		return err
	}); err != nil {
		return nil, fmt.Errorf("load vote plans from %s: %w", sourceName(source), err)
	}
	log.Debugw("vote plans loaded", "source", sourceName(source), "count", len(plans))
	return SelectVotePlan(plans, id)
}

// DecodeVotePlans decodes a JSON array of vote plan statuses. A single JSON
// object is accepted as a list with one vote plan.
func DecodeVotePlans(r io.Reader) ([]*types.VotePlan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		vp := new(types.VotePlan)
		if err := json.Unmarshal(data, vp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		return []*types.VotePlan{vp}, nil
	}
	var plans []*types.VotePlan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	for i, vp := range plans {
		if vp == nil {
			return nil, fmt.Errorf("%w: vote plan %d is null", ErrMalformedInput, i)
		}
	}
	return plans, nil
}

// SelectVotePlan picks a vote plan out of plans. When id is given, the vote
// plan with that identifier is returned. Otherwise plans must hold exactly
// one vote plan, which is returned.
func SelectVotePlan(plans []*types.VotePlan, id *types.VotePlanID) (*types.VotePlan, error) {
	if id == nil {
		switch len(plans) {
		case 0:
			return nil, ErrVotePlanNotFound
		case 1:
			return plans[0], nil
		default:
			return nil, fmt.Errorf("%w: %d vote plans found, select one by its identifier", ErrAmbiguousVotePlan, len(plans))
		}
	}
	var found *types.VotePlan
	for _, vp := range plans {
		if vp.ID != *id {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: vote plan %s listed more than once", ErrAmbiguousVotePlan, id)
		}
		found = vp
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrVotePlanNotFound, id)
	}
	return found, nil
}
