// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/canonica/core"
)

// MarshalSeriesProfile serializes a SeriesProfile to bytes.
func MarshalSeriesProfile(profile *core.SeriesProfile) []byte {
	buf := make([]byte, core.SeriesProfileMUS.Size(*profile))
	core.SeriesProfileMUS.Marshal(*profile, buf)
	return buf
}

// UnmarshalSeriesProfile deserializes a SeriesProfile from bytes.
func UnmarshalSeriesProfile(data []byte) (*core.SeriesProfile, error) {
	profile, _, err := core.SeriesProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// MarshalTeiHeader serializes a TeiHeader to bytes.
func MarshalTeiHeader(header *core.TeiHeader) []byte {
	buf := make([]byte, core.TeiHeaderMUS.Size(*header))
	core.TeiHeaderMUS.Marshal(*header, buf)
	return buf
}

// UnmarshalTeiHeader deserializes a TeiHeader from bytes.
func UnmarshalTeiHeader(data []byte) (*core.TeiHeader, error) {
	header, _, err := core.TeiHeaderMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// MarshalCanonicalEpisode serializes a CanonicalEpisode to bytes.
func MarshalCanonicalEpisode(episode *core.CanonicalEpisode) []byte {
	buf := make([]byte, core.CanonicalEpisodeMUS.Size(*episode))
	core.CanonicalEpisodeMUS.Marshal(*episode, buf)
	return buf
}

// UnmarshalCanonicalEpisode deserializes a CanonicalEpisode from bytes.
func UnmarshalCanonicalEpisode(data []byte) (*core.CanonicalEpisode, error) {
	episode, _, err := core.CanonicalEpisodeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// MarshalIngestionJob serializes an IngestionJob to bytes.
func MarshalIngestionJob(job *core.IngestionJob) []byte {
	buf := make([]byte, core.IngestionJobMUS.Size(*job))
	core.IngestionJobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalIngestionJob deserializes an IngestionJob from bytes.
func UnmarshalIngestionJob(data []byte) (*core.IngestionJob, error) {
	job, _, err := core.IngestionJobMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarshalSourceDocument serializes a SourceDocument to bytes.
func MarshalSourceDocument(document *core.SourceDocument) []byte {
	buf := make([]byte, core.SourceDocumentMUS.Size(*document))
	core.SourceDocumentMUS.Marshal(*document, buf)
	return buf
}

// UnmarshalSourceDocument deserializes a SourceDocument from bytes.
func UnmarshalSourceDocument(data []byte) (*core.SourceDocument, error) {
	document, _, err := core.SourceDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// MarshalApprovalEvent serializes an ApprovalEvent to bytes.
func MarshalApprovalEvent(event *core.ApprovalEvent) []byte {
	buf := make([]byte, core.ApprovalEventMUS.Size(*event))
	core.ApprovalEventMUS.Marshal(*event, buf)
	return buf
}

// UnmarshalApprovalEvent deserializes an ApprovalEvent from bytes.
func UnmarshalApprovalEvent(data []byte) (*core.ApprovalEvent, error) {
	event, _, err := core.ApprovalEventMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
