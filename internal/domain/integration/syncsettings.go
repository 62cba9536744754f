package integration

// Sync frequencies accepted in SyncSettings.
const (
	FrequencyHourly = "hourly"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// SyncSettings is the per-integration scheduling preference. A nil
// AutoSyncEnabled means the user never chose, which counts as enabled.
type SyncSettings struct {
	AutoSyncEnabled *bool    `json:"auto_sync_enabled,omitempty"`
	SyncFrequency   string   `json:"sync_frequency,omitempty"`
	SyncTime        string   `json:"sync_time,omitempty"`
	Entities        []string `json:"entities,omitempty"`
}

func (s SyncSettings) AutoSyncOn() bool {
	return s.AutoSyncEnabled == nil || *s.AutoSyncEnabled
}

// Includes reports whether entity is selected. An empty selection means all.
func (s SyncSettings) Includes(entity string) bool {
	if len(s.Entities) == 0 {
		return true
	}
	for _, e := range s.Entities {
		if e == entity {
			return true
		}
	}
	return false
}

// Merge overlays the non-zero fields of patch onto s.
func (s SyncSettings) Merge(patch SyncSettings) SyncSettings {
	if patch.AutoSyncEnabled != nil {
		v := *patch.AutoSyncEnabled
		s.AutoSyncEnabled = &v
	}
	if patch.SyncFrequency != "" {
		s.SyncFrequency = patch.SyncFrequency
	}
	if patch.SyncTime != "" {
		s.SyncTime = patch.SyncTime
	}
	if patch.Entities != nil {
		s.Entities = append([]string(nil), patch.Entities...)
	}
	return s
}
