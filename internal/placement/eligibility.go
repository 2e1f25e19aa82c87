package placement

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AnyBranch is the criteria_branch sentinel meaning no branch restriction
const AnyBranch = "Any"

// Rejection reasons
const (
	ReasonBranchNotMet = "branch criteria not met"
	ReasonCGPANotMet   = "cgpa criteria not met"
)

// Decision is the outcome of an eligibility evaluation
type Decision struct {
	Admitted bool
	Reason   string
}

// Admit is the admitting decision
var Admit = Decision{Admitted: true}

// Reject builds a rejecting decision
func Reject(reason string) Decision {
	return Decision{Admitted: false, Reason: reason}
}

// Evaluate decides whether a candidate meets a job's eligibility criteria.
// criteriaCGPA may be nil, meaning no CGPA constraint.
func Evaluate(criteriaBranch string, criteriaCGPA *float64, candidateBranch string, candidateCGPA float64) Decision {
	if branches := AllowedBranches(criteriaBranch); len(branches) > 0 {
		if _, ok := branches[strings.ToLower(strings.TrimSpace(candidateBranch))]; !ok {
			return Reject(ReasonBranchNotMet)
		}
	}

	if minimum, ok := cgpaConstraint(criteriaCGPA); ok && candidateCGPA < minimum {
		return Reject(ReasonCGPANotMet)
	}

	return Admit
}

// AllowedBranches parses criteria_branch into a set of lower-cased branch names.
// An empty set means unrestricted.
func AllowedBranches(criteriaBranch string) map[string]struct{} {
	if criteriaBranch == "" || criteriaBranch == AnyBranch {
		return nil
	}
	tokens := strings.FieldsFunc(criteriaBranch, func(r rune) bool {
		return r == ',' || r == '|'
	})
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

func cgpaConstraint(criteria *float64) (float64, bool) {
	if criteria == nil {
		return 0, false
	}
	v := *criteria
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// ParseCGPA reads an optional CGPA criterion from loosely typed input such as a
// decoded JSON body. Missing, empty or non-numeric input yields nil.
func ParseCGPA(raw interface{}) *float64 {
	var v float64
	switch t := raw.(type) {
	case nil:
		return nil
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		v = f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
