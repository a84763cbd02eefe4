// Package decision defines the closed failure taxonomy (§4.G) and
// assembles the per-intent decision log the rest of the core returns
// instead of raising exceptions across stage boundaries.
package decision

// Reason is one of the closed set of string-stable failure reasons every
// core function returns on failure. New values are never added outside
// this list.
type Reason string

const (
	ReasonNoCandidateAboveThreshold           Reason = "no_candidate_above_threshold"
	ReasonDurationFiltered                    Reason = "duration_filtered"
	ReasonDurationDeltaGtLimit                Reason = "duration_delta_gt_limit"
	ReasonDisallowedVariant                   Reason = "disallowed_variant"
	ReasonCoverArtist                         Reason = "cover_artist"
	ReasonMBBindingBelowThreshold             Reason = "mb_binding_below_threshold"
	ReasonNoValidReleaseForRecording          Reason = "no_valid_release_for_recording"
	ReasonCompilationAlbumMismatch            Reason = "compilation_album_mismatch"
	ReasonReleaseEnrichmentIncomplete         Reason = "release_enrichment_incomplete"
	ReasonRequiresMBBoundMetadata             Reason = "music_track_requires_mb_bound_metadata"
	ReasonMetadataIncompleteBeforePathBuild    Reason = "music_release_metadata_incomplete_before_path_build"
	ReasonSourceUnavailable                   Reason = "source_unavailable"
	ReasonFilenameContractViolation           Reason = "music_filename_contract_violation"
)
