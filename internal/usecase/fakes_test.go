package usecase

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
)

// In-memory repository fakes. They mirror the Mongo repositories' error
// contract: mongo.ErrNoDocuments for misses, a duplicate-key write
// exception for unique index violations. The mutex matters because paired
// writes run concurrently.

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{mongo.WriteError{Code: 11000}}}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User
}

// cloneUser mirrors the Mongo repositories decoding a fresh document per
// call: callers must never share pointers with the store, otherwise
// updates would mutate a caller's snapshot mid-operation.
func cloneUser(user *model.User) *model.User {
	clone := *user
	return &clone
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[bson.ObjectID]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	user, ok := r.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneUser(user), nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []*model.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	user, ok := r.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Lastname != nil {
		user.Lastname = *params.Lastname
	}
	if params.Confirmed != nil {
		user.Confirmed = *params.Confirmed
	}
	if params.ProfileImage != nil {
		user.ProfileImage = params.ProfileImage
	}
	if params.ClearProfileImage {
		user.ProfileImage = nil
	}

	return cloneUser(user), nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[bson.ObjectID]*model.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[bson.ObjectID]*model.Token)}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token *model.Token) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID.IsZero() {
		token.ID = bson.NewObjectID()
	}
	r.tokens[token.ID] = token
	return token, nil
}

func (r *fakeTokenRepo) GetTokenByValue(_ context.Context, value string) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, token := range r.tokens {
		if token.Token == value {
			return token, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTokenRepo) DeleteToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	delete(r.tokens, objectID)
	return nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func (r *fakeTokenRepo) forUser(userID bson.ObjectID) []*model.Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tokens []*model.Token
	for _, token := range r.tokens {
		if token.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[bson.ObjectID]*model.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[bson.ObjectID]*model.Project)}
}

func (r *fakeProjectRepo) CreateProject(_ context.Context, project *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = bson.NewObjectID()
	}
	if project.Team == nil {
		project.Team = []bson.ObjectID{}
	}
	if project.Tasks == nil {
		project.Tasks = []bson.ObjectID{}
	}
	r.projects[project.ID] = project
	return project, nil
}

func (r *fakeProjectRepo) GetProject(_ context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	project, ok := r.projects[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return project, nil
}

func (r *fakeProjectRepo) ListProjectsForUser(_ context.Context, userID bson.ObjectID) ([]*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var projects []*model.Project
	for _, project := range r.projects {
		if project.CanAccess(userID) {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (r *fakeProjectRepo) UpdateProject(_ context.Context, id string, params repository.UpdateProjectParams) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	project, ok := r.projects[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.ProjectName != nil {
		project.ProjectName = *params.ProjectName
	}
	if params.ClientName != nil {
		project.ClientName = *params.ClientName
	}
	if params.Description != nil {
		project.Description = *params.Description
	}

	return project, nil
}

func (r *fakeProjectRepo) DeleteProject(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	delete(r.projects, objectID)
	return nil
}

func (r *fakeProjectRepo) AddTask(_ context.Context, projectID, taskID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	project.Tasks = append(project.Tasks, taskID)
	return nil
}

func (r *fakeProjectRepo) RemoveTask(_ context.Context, projectID, taskID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	project.Tasks = removeID(project.Tasks, taskID)
	return nil
}

func (r *fakeProjectRepo) AddTeamMember(_ context.Context, projectID, userID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	project.Team = append(project.Team, userID)
	return nil
}

func (r *fakeProjectRepo) RemoveTeamMember(_ context.Context, projectID, userID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	project.Team = removeID(project.Team, userID)
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[bson.ObjectID]*model.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[bson.ObjectID]*model.Task)}
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = bson.NewObjectID()
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.CompletedBy == nil {
		task.CompletedBy = []model.StatusChange{}
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *fakeTaskRepo) GetTask(_ context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	task, ok := r.tasks[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return task, nil
}

func (r *fakeTaskRepo) ListTasksByProject(_ context.Context, projectID bson.ObjectID) ([]*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tasks []*model.Task
	for _, task := range r.tasks {
		if task.Project == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, id string, params repository.UpdateTaskParams) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	task, ok := r.tasks[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		task.Name = *params.Name
	}
	if params.Description != nil {
		task.Description = *params.Description
	}

	return task, nil
}

func (r *fakeTaskRepo) UpdateTaskStatus(_ context.Context, id string, status model.TaskStatus, change model.StatusChange) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	task, ok := r.tasks[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	task.Status = status
	task.CompletedBy = append(task.CompletedBy, change)
	return task, nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	delete(r.tasks, objectID)
	return nil
}

func (r *fakeTaskRepo) DeleteTasksByProject(_ context.Context, projectID bson.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, task := range r.tasks {
		if task.Project == projectID {
			delete(r.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

func removeID(ids []bson.ObjectID, target bson.ObjectID) []bson.ObjectID {
	filtered := ids[:0]
	for _, id := range ids {
		if id != target {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
