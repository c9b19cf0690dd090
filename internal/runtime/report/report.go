// Package report decodes the harvest reports published on the harvests
// exchange when a harvest run completes.
package report

import (
	"fmt"
	"time"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/jsoncodec"
)

// TimestampLayout is the format harvesters write startTime in,
// e.g. "2023-06-01 12:00:00.000 +0000".
const TimestampLayout = "2006-01-02 15:04:05.999999999 -0700"

// ResourceRef identifies one harvested resource.
type ResourceRef struct {
	FdkID string `json:"fdkId"`
}

// HarvestReport describes one harvest run: the resources changed since
// StartTime and, optionally, the ones removed.
type HarvestReport struct {
	StartTime        string         `json:"startTime"`
	ChangedResources *[]ResourceRef `json:"changedResources"`
	RemovedResources []ResourceRef  `json:"removedResources,omitempty"`

	// Timestamp is StartTime in epoch milliseconds, set by Decode.
	Timestamp int64 `json:"-"`
}

// reportJSON accepts the camelCase keys harvesters write as well as their
// snake_case spellings. The camelCase key wins when both are present.
type reportJSON struct {
	StartTime             *string        `json:"startTime"`
	StartTimeSnake        *string        `json:"start_time"`
	ChangedResources      *[]ResourceRef `json:"changedResources"`
	ChangedResourcesSnake *[]ResourceRef `json:"changed_resources"`
	RemovedResources      []ResourceRef  `json:"removedResources"`
	RemovedResourcesSnake []ResourceRef  `json:"removed_resources"`
}

func (r *HarvestReport) UnmarshalJSON(data []byte) error {
	var raw reportJSON
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = HarvestReport{
		ChangedResources: raw.ChangedResources,
		RemovedResources: raw.RemovedResources,
	}
	switch {
	case raw.StartTime != nil:
		r.StartTime = *raw.StartTime
	case raw.StartTimeSnake != nil:
		r.StartTime = *raw.StartTimeSnake
	}
	if r.ChangedResources == nil {
		r.ChangedResources = raw.ChangedResourcesSnake
	}
	if r.RemovedResources == nil {
		r.RemovedResources = raw.RemovedResourcesSnake
	}
	return nil
}

func (r *ResourceRef) UnmarshalJSON(data []byte) error {
	var raw struct {
		FdkID      *string `json:"fdkId"`
		FdkIDSnake *string `json:"fdk_id"`
	}
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.FdkID != nil:
		r.FdkID = *raw.FdkID
	case raw.FdkIDSnake != nil:
		r.FdkID = *raw.FdkIDSnake
	default:
		r.FdkID = ""
	}
	return nil
}

// Changed returns the changed resources, or nil when the list is empty.
func (r HarvestReport) Changed() []ResourceRef {
	if r.ChangedResources == nil {
		return nil
	}
	return *r.ChangedResources
}

// Decode parses a message payload into its harvest reports. Every report's
// start time is parsed before Decode returns, so a single bad timestamp fails
// the whole payload.
func Decode(payload []byte) ([]HarvestReport, error) {
	var reports []HarvestReport
	if err := jsoncodec.Unmarshal(payload, &reports); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedPayload, err)
	}

	for i := range reports {
		if reports[i].ChangedResources == nil {
			return nil, fmt.Errorf("%w: report %d has no changedResources", errors.ErrMalformedPayload, i)
		}
		ts, err := ParseTimestamp(reports[i].StartTime)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
		reports[i].Timestamp = ts
	}
	return reports, nil
}

// ParseTimestamp converts a report start time to epoch milliseconds.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidTimestamp, s)
	}
	return t.UnixMilli(), nil
}

// Counts returns the number of changed and removed resources across reports.
func Counts(reports []HarvestReport) (changed, removed int) {
	for _, r := range reports {
		changed += len(r.Changed())
		removed += len(r.RemovedResources)
	}
	return changed, removed
}
