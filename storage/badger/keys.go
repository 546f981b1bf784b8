package badger

import (
	"github.com/google/uuid"
)

// Key prefixes for different data types
const (
	seriesProfilePrefix = "serpro"
	seriesSlugPrefix    = "serslg"
	teiHeaderPrefix     = "teihdr"
	teiHeaderBlobPrefix = "teihdrz"
	episodePrefix       = "canepi"
	episodeBlobPrefix   = "canepiz"
	episodeSeriesPrefix = "canepis"
	jobPrefix           = "ingjob"
	jobSeriesPrefix     = "ingjobs"
	sourcePrefix        = "srcdoc"
	sourceEpisodePrefix = "srcdoce"
	eventPrefix         = "aprevt"
	eventEpisodePrefix  = "aprevte"
)

// makeKey generates a key from a prefix and one or more UUIDs.
// UUID bytes sort lexicographically in generation order for version 7
// IDs, so prefix iteration yields records in creation order.
func makeKey(prefix string, ids ...uuid.UUID) []byte {
	buf := make([]byte, 0, len(prefix)+1+len(ids)*16)
	buf = append(buf, prefix...)
	buf = append(buf, ':')
	for _, id := range ids {
		buf = append(buf, id[:]...)
	}
	return buf
}

// makeSeriesProfileKey generates the primary key for a series profile.
func makeSeriesProfileKey(id uuid.UUID) []byte {
	return makeKey(seriesProfilePrefix, id)
}

// makeSeriesSlugKey generates the unique-slug index key. The value is the
// 16 raw bytes of the owning profile ID.
func makeSeriesSlugKey(slug string) []byte {
	return append([]byte(seriesSlugPrefix+":"), slug...)
}

// makeTeiHeaderKey generates the primary key for a TEI header.
func makeTeiHeaderKey(id uuid.UUID) []byte {
	return makeKey(teiHeaderPrefix, id)
}

// makeTeiHeaderBlobKey generates the companion key holding the compressed
// raw XML of a TEI header, present only when the payload is compressed.
func makeTeiHeaderBlobKey(id uuid.UUID) []byte {
	return makeKey(teiHeaderBlobPrefix, id)
}

// makeEpisodeKey generates the primary key for a canonical episode.
func makeEpisodeKey(id uuid.UUID) []byte {
	return makeKey(episodePrefix, id)
}

// makeEpisodeBlobKey generates the companion key holding the compressed
// TEI XML of an episode.
func makeEpisodeBlobKey(id uuid.UUID) []byte {
	return makeKey(episodeBlobPrefix, id)
}

// makeEpisodeSeriesKey generates a composite key for the series index.
// Format: prefix:seriesID:episodeID
func makeEpisodeSeriesKey(seriesID, episodeID uuid.UUID) []byte {
	return makeKey(episodeSeriesPrefix, seriesID, episodeID)
}

// makeJobKey generates the primary key for an ingestion job.
func makeJobKey(id uuid.UUID) []byte {
	return makeKey(jobPrefix, id)
}

// makeJobSeriesKey generates a composite key for the series index.
// Format: prefix:seriesID:jobID
func makeJobSeriesKey(seriesID, jobID uuid.UUID) []byte {
	return makeKey(jobSeriesPrefix, seriesID, jobID)
}

// makeSourceDocumentKey generates the primary key for a source document.
func makeSourceDocumentKey(id uuid.UUID) []byte {
	return makeKey(sourcePrefix, id)
}

// makeSourceEpisodeKey generates a composite key for the episode index.
// Format: prefix:episodeID:sourceID
func makeSourceEpisodeKey(episodeID, sourceID uuid.UUID) []byte {
	return makeKey(sourceEpisodePrefix, episodeID, sourceID)
}

// makeApprovalEventKey generates the primary key for an approval event.
func makeApprovalEventKey(id uuid.UUID) []byte {
	return makeKey(eventPrefix, id)
}

// makeApprovalEpisodeKey generates a composite key for the episode index.
// Format: prefix:episodeID:eventID
func makeApprovalEpisodeKey(episodeID, eventID uuid.UUID) []byte {
	return makeKey(eventEpisodePrefix, episodeID, eventID)
}
