// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "reviewer-conflicts/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BibliographyConfig holds settings for reading the bibliography archive.
type BibliographyConfig struct {
	// ArchivePath is the gzip-compressed DBLP XML file (default "./dblp.xml.gz").
	ArchivePath string `json:"archive" yaml:"archive"`

	// PublicationElements lists additional top-level element names treated as
	// publications, on top of article and inproceedings.
	PublicationElements []string `json:"publication_elements,omitempty" yaml:"publication_elements,omitempty"`
}

// CoauthorConfig holds settings for building the coauthor graph.
type CoauthorConfig struct {
	// CurrentYear anchors the coauthor window. It must be set explicitly;
	// the builder never reads the clock.
	CurrentYear int `json:"current_year" yaml:"current_year"`

	// WindowYears is the window length including the current year (default 6).
	WindowYears int `json:"window_years" yaml:"window_years"`

	// Workers is the number of independent archive passes run in parallel,
	// each over a disjoint reviewer partition (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// AliasesOnly matches bibliography authors against the recorded
	// aliases only. The prefix rule is skipped and no new alias is recorded,
	// so aliases removed from a curated roster stay removed.
	AliasesOnly bool `json:"aliases_only" yaml:"aliases_only"`
}

// StoreConfig holds settings for the coauthor graph database.
type StoreConfig struct {
	// DataDir is the directory holding coauthors.db and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// FetchConfig holds settings for downloading the bibliography archive.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the archive location (default https://dblp.org/xml/dblp.xml.gz).
	URL string `json:"url" yaml:"url"`

	// Dest is the local path the archive is written to.
	Dest string `json:"dest" yaml:"dest"`

	// VerifyMD5 fetches URL+".md5" and checks the download against it.
	VerifyMD5 bool `json:"verify_md5" yaml:"verify_md5"`

	// MaxRetries bounds retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}
