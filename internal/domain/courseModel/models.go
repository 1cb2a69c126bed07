package courseModel

import "time"

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var ODT DocType = "ODT"
var RTF DocType = "RTF"
var TXT DocType = "TXT"
var MARKDOWN DocType = "MARKDOWN"
var HTML DocType = "HTML"
var ERR DocType = "ERROR"

// SourceDocument is a discovered curriculum file. Content holds the raw bytes
// the fingerprint is computed from.
type SourceDocument struct {
	Id      string
	Path    string
	Content []byte
	DocType DocType
}

type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Unit struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	ChunkIndexes []int  `json:"chunk_indexes"`
}

type CourseParseResult struct {
	CourseId    string
	SourcePath  string
	Chunks      []Chunk
	Units       map[int]Unit
	FullText    string
	Fingerprint string
	ParsedAt    time.Time
	Strategy    string
}

type UnitContent struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	ChunkCount int    `json:"chunk_count"`
}

type Question struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"len=4,unique,dive,required"`
	Answer      string   `json:"answer" validate:"required,oneof=A B C D"`
	Explanation string   `json:"explanation" validate:"required"`
}

type QuestionOrigin string

const (
	OriginBackend  QuestionOrigin = "backend"
	OriginFallback QuestionOrigin = "fallback"
)

type CachedQuestionSet struct {
	CourseId    string         `json:"course_id"`
	Unit        int            `json:"unit"`
	Questions   []Question     `json:"questions"`
	Fingerprint string         `json:"fingerprint"`
	GeneratedAt time.Time      `json:"generated_at"`
	Origin      QuestionOrigin `json:"origin,omitempty"`
}

// IsValidFor reports whether the set was generated from the document with
// the given fingerprint.
func (c CachedQuestionSet) IsValidFor(fingerprint string) bool {
	return fingerprint != "" && c.Fingerprint == fingerprint
}

type QuestionSource string

const (
	SourceCache     QuestionSource = "cache"
	SourceGenerated QuestionSource = "generated"
)

type QuestionSetResult struct {
	CourseId    string         `json:"course_id"`
	Unit        int            `json:"unit"`
	Title       string         `json:"title"`
	Questions   []Question     `json:"questions"`
	Source      QuestionSource `json:"source"`
	Origin      QuestionOrigin `json:"origin"`
	Fingerprint string         `json:"fingerprint"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type UnitSummary struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"`
	Cached     bool   `json:"cached"`
}

type UnitListing struct {
	CourseId string        `json:"course_id"`
	Units    []UnitSummary `json:"units"`
}

type CourseSummary struct {
	CourseId    string `json:"course_id"`
	UnitCount   int    `json:"unit_count"`
	ChunkCount  int    `json:"chunk_count"`
	Fingerprint string `json:"fingerprint"`
	Strategy    string `json:"strategy"`
}

type SearchMatch struct {
	CourseId   string  `json:"course_id"`
	ChunkIndex int     `json:"chunk_index"`
	Units      []int   `json:"units"`
	Score      float32 `json:"score"`
	Snippet    string  `json:"snippet"`
}

type WarmResult struct {
	CourseId  string `json:"course_id"`
	Generated []int  `json:"generated"`
	Skipped   []int  `json:"skipped"`
}
