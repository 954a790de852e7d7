package service

import (
	"context"
	"errors"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error)
	List(ctx context.Context, filter dto.TaskFilter) (*dto.TaskListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskOpen,
		Priority:    "normal",
		CreatedBy:   userID,
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.AssigneeID != nil {
		aid, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, errors.New("assignee_id must be a UUID")
		}
		task.AssigneeID = &aid
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, errors.New("due_date must be YYYY-MM-DD")
		}
		task.DueDate = &due
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("task not found")
	}
	return taskToResponse(task), nil
}

func (s *taskService) List(ctx context.Context, filter dto.TaskFilter) (*dto.TaskListResponse, error) {
	repoFilter := repository.TaskFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.AssigneeID != "" {
		aid, err := uuid.Parse(filter.AssigneeID)
		if err != nil {
			return nil, errors.New("assignee_id must be a UUID")
		}
		repoFilter.AssigneeID = &aid
	}
	tasks, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		data[i] = *taskToResponse(&tasks[i])
	}
	return &dto.TaskListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("task not found")
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.AssigneeID != nil {
		aid, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, errors.New("assignee_id must be a UUID")
		}
		task.AssigneeID = &aid
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, errors.New("due_date must be YYYY-MM-DD")
		}
		task.DueDate = &due
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func taskToResponse(t *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedBy.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.AssigneeID != nil {
		aid := t.AssigneeID.String()
		resp.AssigneeID = &aid
	}
	if t.Assignee != nil {
		resp.AssigneeName = t.Assignee.FullName
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}
