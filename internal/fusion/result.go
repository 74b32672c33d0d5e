package fusion

import (
	"time"

	"docfusion/internal/extract"
	"docfusion/internal/images"
	"docfusion/internal/llm"
	"docfusion/internal/tables"
)

// DocumentMetadata is the merged document-level view.
type DocumentMetadata struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	PageCount int       `json:"page_count"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Language  string    `json:"language,omitempty"`
}

// BackendReport records one backend's run for observability. Failures
// are retained here, never silently dropped.
type BackendReport struct {
	Backend        string   `json:"backend"`
	Status         string   `json:"status"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Error          string   `json:"error,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ProcessingInfo describes how the request was processed.
type ProcessingInfo struct {
	Backends       []BackendReport `json:"backends"`
	ForceOCR       bool            `json:"force_ocr"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
	Status         string          `json:"status"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// Result is the unified document representation returned to callers.
// It is built additively during merge and never mutated afterwards.
type Result struct {
	DocumentMetadata DocumentMetadata `json:"document_metadata"`
	ProcessingInfo   ProcessingInfo   `json:"processing_info"`
	Pages            []extract.Page   `json:"pages"`
	FullText         string           `json:"full_text"`
	Tables           []tables.Record  `json:"tables"`
	Images           []images.Record  `json:"images"`
	Analysis         *llm.Analysis    `json:"gemini_analysis,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
