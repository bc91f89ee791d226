package i18n

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// FriendlyNumber shortens large counts for badges: 999, 1.2k, 15k, 3.4M.
// Values are truncated, never rounded up. Negative values are not counts
// and are printed as they are.
func FriendlyNumber(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	v, prefix := humanize.ComputeSI(float64(n))
	// Guard against 3.4 landing on 3.3999... before truncation.
	const eps = 1e-9
	if tenths := int(v*10 + eps); tenths < 100 {
		if tenths%10 == 0 {
			return strconv.Itoa(tenths/10) + prefix
		}
		return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10) + prefix
	}
	return strconv.Itoa(int(v+eps)) + prefix
}
