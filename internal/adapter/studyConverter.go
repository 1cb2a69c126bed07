package adapter

import (
	"errors"

	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

// ToErrorResponse maps a service error onto its HTTP status and body.
func ToErrorResponse(err error) (int, api.ErrorResponse) {
	kind := courseModel.KindOf(err)
	code := kind.StatusCode()
	msg := err.Error()
	if kind == courseModel.KindInternal {
		// internal causes stay in the logs
		msg = "internal error"
		var se *courseModel.StudyError
		if errors.As(err, &se) && se.Message != "" {
			msg = se.Message
		}
	}
	return code, api.ErrorResponse{Code: code, Kind: string(kind), Message: msg}
}

func ToCoursesResponse(courses []courseModel.CourseSummary) api.CoursesResponse {
	out := api.CoursesResponse{Courses: make([]api.CourseResponse, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, api.CourseResponse{
			CourseId:    c.CourseId,
			UnitCount:   c.UnitCount,
			ChunkCount:  c.ChunkCount,
			Fingerprint: c.Fingerprint,
			Strategy:    c.Strategy,
		})
	}
	return out
}

func ToUnitsResponse(listing courseModel.UnitListing) api.UnitsResponse {
	out := api.UnitsResponse{CourseId: listing.CourseId, Units: make([]api.UnitResponse, 0, len(listing.Units))}
	for _, u := range listing.Units {
		out.Units = append(out.Units, api.UnitResponse{
			Number:     u.Number,
			Title:      u.Title,
			ChunkCount: u.ChunkCount,
			Cached:     u.Cached,
		})
	}
	return out
}

func ToQuestionSetResponse(res courseModel.QuestionSetResult) api.QuestionSetResponse {
	out := api.QuestionSetResponse{
		CourseId:    res.CourseId,
		Unit:        res.Unit,
		Title:       res.Title,
		Source:      string(res.Source),
		Origin:      string(res.Origin),
		Fingerprint: res.Fingerprint,
		GeneratedAt: res.GeneratedAt,
		Questions:   make([]api.QuestionResponse, 0, len(res.Questions)),
	}
	for _, q := range res.Questions {
		out.Questions = append(out.Questions, api.QuestionResponse{
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return out
}

func ToSearchResponse(courseId, query string, matches []courseModel.SearchMatch) api.SearchResponse {
	out := api.SearchResponse{CourseId: courseId, Query: query, Matches: make([]api.SearchMatchResponse, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, api.SearchMatchResponse{
			ChunkIndex: m.ChunkIndex,
			Units:      m.Units,
			Score:      m.Score,
			Snippet:    m.Snippet,
		})
	}
	return out
}
