package mcpServer

import (
	"context"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/study"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

var logger = logger_i.NewLogger("mcp")

// Server exposes the study service as MCP tools.
type Server struct {
	service study.Service
	server  *mcp.Server
}

func NewServer(service study.Service) *Server {
	s := &Server{
		service: service,
		server:  mcp.NewServer(&mcp.Implementation{Name: "studyapi", Version: Version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type ListCoursesInput struct{}

type CourseOutput struct {
	CourseId  string `json:"course_id"`
	UnitCount int    `json:"unit_count"`
	Strategy  string `json:"strategy"`
}

type ListCoursesOutput struct {
	Courses []CourseOutput `json:"courses"`
}

type ListUnitsInput struct {
	CourseId string `json:"course_id" jsonschema:"the course id, as returned by list_courses"`
}

type UnitOutput struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Cached bool   `json:"cached"`
}

type ListUnitsOutput struct {
	CourseId string       `json:"course_id"`
	Units    []UnitOutput `json:"units"`
}

type QuestionsInput struct {
	CourseId string `json:"course_id" jsonschema:"the course id, as returned by list_courses"`
	Unit     int    `json:"unit" jsonschema:"the unit number, as returned by list_units"`
}

type QuestionOutput struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type QuestionsOutput struct {
	CourseId    string           `json:"course_id"`
	Unit        int              `json:"unit"`
	Title       string           `json:"title"`
	Source      string           `json:"source"`
	Origin      string           `json:"origin"`
	GeneratedAt string           `json:"generated_at"`
	Questions   []QuestionOutput `json:"questions"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_courses",
		Description: "List the courses parsed from the documents directory",
	}, s.handleListCourses)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_units",
		Description: "List the units of a course with their titles and whether questions are cached",
	}, s.handleListUnits)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_questions",
		Description: "Get multiple-choice practice questions for a unit, from the cache when the course is unchanged",
	}, s.handleGetQuestions)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "regenerate_questions",
		Description: "Generate a new set of practice questions for a unit, replacing the cached set",
	}, s.handleRegenerateQuestions)
}

func (s *Server) handleListCourses(ctx context.Context, _ *mcp.CallToolRequest, _ ListCoursesInput) (*mcp.CallToolResult, ListCoursesOutput, error) {
	courses := s.service.ListCourses(ctx)
	out := ListCoursesOutput{Courses: make([]CourseOutput, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, CourseOutput{CourseId: c.CourseId, UnitCount: c.UnitCount, Strategy: c.Strategy})
	}
	return nil, out, nil
}

func (s *Server) handleListUnits(ctx context.Context, _ *mcp.CallToolRequest, in ListUnitsInput) (*mcp.CallToolResult, ListUnitsOutput, error) {
	listing, err := s.service.ListUnits(ctx, in.CourseId)
	if err != nil {
		return nil, ListUnitsOutput{}, err
	}
	out := ListUnitsOutput{CourseId: listing.CourseId, Units: make([]UnitOutput, 0, len(listing.Units))}
	for _, u := range listing.Units {
		out.Units = append(out.Units, UnitOutput{Number: u.Number, Title: u.Title, Cached: u.Cached})
	}
	return nil, out, nil
}

func (s *Server) handleGetQuestions(ctx context.Context, _ *mcp.CallToolRequest, in QuestionsInput) (*mcp.CallToolResult, QuestionsOutput, error) {
	res, err := s.service.GetQuestions(ctx, in.CourseId, in.Unit)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}
	return nil, toQuestionsOutput(res), nil
}

func (s *Server) handleRegenerateQuestions(ctx context.Context, _ *mcp.CallToolRequest, in QuestionsInput) (*mcp.CallToolResult, QuestionsOutput, error) {
	res, err := s.service.RegenerateQuestions(ctx, in.CourseId, in.Unit)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}
	return nil, toQuestionsOutput(res), nil
}

func toQuestionsOutput(res courseModel.QuestionSetResult) QuestionsOutput {
	out := QuestionsOutput{
		CourseId:  res.CourseId,
		Unit:      res.Unit,
		Title:     res.Title,
		Source:    string(res.Source),
		Origin:    string(res.Origin),
		Questions: make([]QuestionOutput, 0, len(res.Questions)),
	}
	if !res.GeneratedAt.IsZero() {
		out.GeneratedAt = res.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for _, q := range res.Questions {
		out.Questions = append(out.Questions, QuestionOutput{
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return out
}
