package handlers

import (
	"context"
	"errors"

	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/cropcheckai/cropcheck/internal/services/jobs"
)

type mockAnalyzer struct {
	uploadCalls  int
	detectCalls  int
	clarifyCalls int
	lastImage    []byte
	lastDesc     string

	uploadURI     string
	detectResult  *models.DetectResult
	clarifyResult *models.ClarifyResult
	finalResult   *models.FinalResult
	err           error
}

func (m *mockAnalyzer) UploadImage(_ context.Context, data []byte, _ string) (string, error) {
	m.uploadCalls++
	m.lastImage = data
	if m.err != nil {
		return "", m.err
	}
	return m.uploadURI, nil
}

func (m *mockAnalyzer) Detect(_ context.Context, image []byte, _, description string) (*models.DetectResult, error) {
	m.detectCalls++
	m.lastImage = image
	m.lastDesc = description
	if m.err != nil {
		return nil, m.err
	}
	return m.detectResult, nil
}

func (m *mockAnalyzer) Clarify(_ context.Context, req *models.ClarifyRequest) (*models.ClarifyResult, error) {
	m.clarifyCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.clarifyResult, nil
}

func (m *mockAnalyzer) Conclude(_ context.Context, req *models.ConcludeRequest) (*models.FinalResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.finalResult, nil
}

type mockQueue struct {
	published []models.AnalysisJob
	err       error
	status    string
}

func (m *mockQueue) PublishDetectJob(_ context.Context, job *models.AnalysisJob) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, *job)
	return nil
}

func (m *mockQueue) HealthCheck() string {
	if m.status == "" {
		return "healthy"
	}
	return m.status
}

type mockJobStore struct {
	records map[string]models.AnalysisJob
	saveErr error
	status  string
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{records: make(map[string]models.AnalysisJob)}
}

func (m *mockJobStore) Save(_ context.Context, job *models.AnalysisJob) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[job.ID] = *job
	return nil
}

func (m *mockJobStore) Get(_ context.Context, id string) (*models.AnalysisJob, error) {
	job, ok := m.records[id]
	if !ok {
		return nil, jobs.ErrNotFound
	}
	return &job, nil
}

func (m *mockJobStore) HealthCheck(_ context.Context) string {
	if m.status == "" {
		return "healthy"
	}
	return m.status
}

type mockProber struct {
	err error
}

func (m *mockProber) Health(_ context.Context) error {
	return m.err
}

var errUpstream = errors.New("upstream unavailable")
