package engine

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

// ValidateRepoLink checks a repository reference against the required pattern
//
//	https://github.com/<username>/<unitID>_Hackathon_Jan
//
// where username is one or more alphanumeric/hyphen characters and unitID is
// the exact, case-sensitive unit code of the team being updated. On rejection
// the stored value must be left unchanged by the caller.
func ValidateRepoLink(unitID, link string) error {
	pattern := fmt.Sprintf(`^https://github\.com/[a-zA-Z0-9-]+/%s_Hackathon_Jan$`, regexp.QuoteMeta(unitID))
	if !regexp.MustCompile(pattern).MatchString(link) {
		return errors.Wrapf(ErrValidation,
			"invalid repository format, must be https://github.com/USERNAME/%s_Hackathon_Jan", unitID)
	}
	return nil
}
