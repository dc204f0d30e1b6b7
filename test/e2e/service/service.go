package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobqueue/api/v1"
)

const (
	apiV1JobsPath       = "/api/v1/jobs"
	apiV1StatsPath      = "/api/v1/stats"
	apiV1ExecutionsPath = "/api/v1/executions"
	healthPath          = "/health"
)

// APIError is returned for every non 2xx answer.
type APIError struct {
	StatusCode int
	Body       v1.Error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s (%s)", e.StatusCode, e.Body.Error, e.Body.Kind)
}

// JobQueueSvc is an HTTP client for the jobqueue API.
type JobQueueSvc struct {
	baseURL string
	client  *http.Client
}

func NewJobQueueSvc(baseURL string) *JobQueueSvc {
	zap.S().Infow("initializing jobqueue client", "url", baseURL)
	return &JobQueueSvc{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *JobQueueSvc) Health() error {
	_, err := s.do(http.MethodGet, healthPath, nil, nil)
	return err
}

// SubmitJob returns the job and the status code: 202 when the job was
// queued, 200 when an existing job absorbed it.
func (s *JobQueueSvc) SubmitJob(req v1.SubmitJobRequest) (*v1.Job, int, error) {
	var job v1.Job
	status, err := s.do(http.MethodPost, apiV1JobsPath, req, &job)
	if err != nil {
		return nil, status, err
	}
	return &job, status, nil
}

func (s *JobQueueSvc) CancelJob(id string) (*v1.Job, error) {
	var job v1.Job
	if _, err := s.do(http.MethodPost, apiV1JobsPath+"/"+url.PathEscape(id)+"/cancel", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobQueueSvc) PauseJob(id string) (*v1.Job, error) {
	var job v1.Job
	if _, err := s.do(http.MethodPost, apiV1JobsPath+"/"+url.PathEscape(id)+"/pause", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobQueueSvc) ListJobs() (*v1.JobList, error) {
	var list v1.JobList
	if _, err := s.do(http.MethodGet, apiV1JobsPath, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Stats fetches the queue counters. A non nil rank also asks whether a job
// of that rank should yield.
func (s *JobQueueSvc) Stats(rank *int) (*v1.QueueStats, error) {
	path := apiV1StatsPath
	if rank != nil {
		path += "?rank=" + strconv.Itoa(*rank)
	}

	var stats v1.QueueStats
	if _, err := s.do(http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *JobQueueSvc) Executions(query url.Values) (*v1.ExecutionList, error) {
	path := apiV1ExecutionsPath
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var list v1.ExecutionList
	if _, err := s.do(http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *JobQueueSvc) do(method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, &apiErr.Body)
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
