package client

import (
	"fmt"

	"github.com/plyometrics/forcecloud/internal/common"
)

// Region selects which regional ForceCloud deployment to talk to. Each region
// is a separate host with separate data.
type Region string

const (
	RegionAmericas    Region = "Americas"
	RegionEurope      Region = "Europe"
	RegionAsiaPacific Region = "Asia/Pacific"
	RegionDev         Region = "Dev"
)

var regionBaseURLs = map[Region]string{
	RegionAmericas:    "https://cloud.forcecloud.io/api",
	RegionEurope:      "https://eu.cloud.forcecloud.io/api",
	RegionAsiaPacific: "https://apac.cloud.forcecloud.io/api",
	RegionDev:         "https://dev.forcecloud.io/api",
}

// BaseURL resolves a region to its data-API base URL.
func (r Region) BaseURL() (string, error) {
	u, ok := regionBaseURLs[r]
	if !ok {
		return "", fmt.Errorf("%w: unknown region %q", common.ErrConfig, string(r))
	}
	return u, nil
}

// ParseRegion accepts the canonical region names case-insensitively plus the
// short forms used by the CLI.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "Americas", "americas", "am":
		return RegionAmericas, nil
	case "Europe", "europe", "eu":
		return RegionEurope, nil
	case "Asia/Pacific", "asia/pacific", "apac":
		return RegionAsiaPacific, nil
	case "Dev", "dev":
		return RegionDev, nil
	}
	return "", fmt.Errorf("%w: unknown region %q", common.ErrConfig, s)
}
