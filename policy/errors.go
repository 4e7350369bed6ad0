// SPDX-License-Identifier: EPL-2.0

package policy

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeLimitExceeded is returned when the payload that would be uploaded is
// larger than the analysis API accepts. It is never downgraded to a
// fallback.
type SizeLimitExceeded struct {
	Name  string
	Size  int64
	Limit int64
}

func (e *SizeLimitExceeded) Error() string {
	return fmt.Sprintf("%s is %s, over the %s upload limit: shorten the recording or split it into parts before uploading",
		e.Name, humanize.IBytes(uint64(e.Size)), humanize.IBytes(uint64(e.Limit)))
}
