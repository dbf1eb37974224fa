// internal/game/documents.go
package game

// Editable document types. Struct tags declare which fields an inspector
// exposes; a field without an access tag stays hidden.

// Chart is the root settings document of one playable song.
type Chart struct {
	Title  string     `json:"title" access:"always"`
	BPM    float64    `json:"bpm" access:"always"`
	Map    MapType    `json:"map" access:"always"`
	Boss   BossTrack  `json:"boss" access:"always"`
	Note   NoteVisual `json:"note" access:"always"`
	Volume VolumeView `json:"volume" access:"always"`
	Offset float64    `json:"offset"`
}

// BossTrack is the boss configuration of a chart.
type BossTrack struct {
	State      BossState           `json:"state" access:"always"`
	Animations []BossAnimationData `json:"animations" access:"always"`
	Manual     ManualAnimation     `json:"manual" access:"always"`
}

// ManualAnimation overrides the scheduled animation while previewing.
type ManualAnimation struct {
	Type        BossAnimationType `json:"type" access:"always"`
	Loop        bool              `json:"loop" access:"when:Type=standby;when:Type=outside;when:Type=attack1-standby;when:Type=attack2-standby"`
	FixedUpdate bool              `json:"fixed_update" access:"always"`
	StartTime   float64           `json:"start_time" access:"when:FixedUpdate=true"`
}

// BossAnimationData schedules one boss animation on the timeline.
type BossAnimationData struct {
	Type               BossAnimationType `json:"type" access:"always"`
	Time               float64           `json:"time" access:"always"`
	Speed              float64           `json:"speed" access:"always"`
	UseUnifiedDuration bool              `json:"use_unified_duration" access:"always"`
	UnifiedDuration    float64           `json:"unified_duration" access:"when:UseUnifiedDuration=true"`
}

// EndTime returns when the animation finishes given the clip's natural
// duration. A unified duration replaces the clip duration when enabled.
func (d BossAnimationData) EndTime(clipDuration float64) float64 {
	duration := clipDuration
	if d.UseUnifiedDuration {
		duration = d.UnifiedDuration
	}
	return d.Time + duration*d.Speed
}

// NoteVisual describes how notes are drawn. Only the block matching Kind is
// exposed.
type NoteVisual struct {
	Kind   VisualKind   `json:"kind" access:"always"`
	Sprite SpriteVisual `json:"sprite" access:"when:Kind=sprite"`
	Spine  *SpineVisual `json:"spine,omitempty" access:"when:Kind=spine"`
}

// SpriteVisual is a static image note.
type SpriteVisual struct {
	Path  string  `json:"path" access:"always"`
	Scale float64 `json:"scale" access:"always"`
}

// SpineVisual is a skeletal-animation note.
type SpineVisual struct {
	Skeleton  string `json:"skeleton" access:"always"`
	Skin      string `json:"skin" access:"always"`
	Animation string `json:"animation" access:"always"`
	Loop      bool   `json:"loop" access:"always"`
}

// VolumeView holds the waveform inspector settings.
type VolumeView struct {
	SkipSamples     int      `json:"skip_samples" access:"always"`
	BeatLineWidth   float64  `json:"beat_line_width" access:"always"`
	VolumeLineWidth float64  `json:"volume_line_width" access:"always"`
	Beat            BeatType `json:"beat" access:"always"`
}

// DefaultVolumeView returns the inspector defaults.
func DefaultVolumeView() VolumeView {
	return VolumeView{
		SkipSamples:     20,
		BeatLineWidth:   0.1,
		VolumeLineWidth: 0.03,
		Beat:            Beat4,
	}
}
