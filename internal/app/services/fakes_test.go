package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

// recordedActivity is one entry captured by the fake recorder
type recordedActivity struct {
	ActorID     *int64
	Action      models.ActionType
	Description string
}

type fakeActivity struct {
	entries []recordedActivity
}

func (f *fakeActivity) Record(_ context.Context, actorID *int64, actionType models.ActionType, description string) {
	f.entries = append(f.entries, recordedActivity{ActorID: actorID, Action: actionType, Description: description})
}

func (f *fakeActivity) last() recordedActivity {
	if len(f.entries) == 0 {
		return recordedActivity{}
	}
	return f.entries[len(f.entries)-1]
}

var levelNotFound = map[models.CatalogLevel]error{
	models.LevelYear:       apperrors.ErrSchoolYearNotFound,
	models.LevelSemester:   apperrors.ErrSemesterNotFound,
	models.LevelGradeLevel: apperrors.ErrGradeLevelNotFound,
	models.LevelSection:    apperrors.ErrSectionNotFound,
	models.LevelSubject:    apperrors.ErrSubjectNotFound,
}

// fakeCatalog keeps each hierarchy level as an id->name map and satisfies
// both catalogStore and subjectCatalog.
type fakeCatalog struct {
	names    map[models.CatalogLevel]map[int64]string
	subjects map[int64]*models.Subject
	nextID   int64
}

func newFakeCatalog() *fakeCatalog {
	names := make(map[models.CatalogLevel]map[int64]string)
	for _, level := range []models.CatalogLevel{
		models.LevelYear, models.LevelSemester, models.LevelGradeLevel,
		models.LevelSection, models.LevelSubject,
	} {
		names[level] = make(map[int64]string)
	}
	return &fakeCatalog{names: names, subjects: make(map[int64]*models.Subject)}
}

func (f *fakeCatalog) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeCatalog) CreateSchoolYear(_ context.Context, schoolYear *models.SchoolYear) error {
	schoolYear.ID = f.id()
	f.names[models.LevelYear][schoolYear.ID] = schoolYear.Year
	return nil
}

func (f *fakeCatalog) CreateSemester(_ context.Context, semester *models.Semester) error {
	semester.ID = f.id()
	f.names[models.LevelSemester][semester.ID] = semester.Name
	return nil
}

func (f *fakeCatalog) CreateGradeLevel(_ context.Context, gradeLevel *models.GradeLevel) error {
	gradeLevel.ID = f.id()
	f.names[models.LevelGradeLevel][gradeLevel.ID] = gradeLevel.Name
	return nil
}

func (f *fakeCatalog) CreateSection(_ context.Context, section *models.Section) error {
	section.ID = f.id()
	f.names[models.LevelSection][section.ID] = section.Name
	return nil
}

func (f *fakeCatalog) CreateSubject(_ context.Context, subject *models.Subject) error {
	subject.ID = f.id()
	f.names[models.LevelSubject][subject.ID] = subject.Name
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeCatalog) GetEntityName(_ context.Context, level models.CatalogLevel, id int64) (string, error) {
	name, ok := f.names[level][id]
	if !ok {
		return "", levelNotFound[level]
	}
	return name, nil
}

func (f *fakeCatalog) Rename(_ context.Context, level models.CatalogLevel, id int64, newName string) error {
	if _, ok := f.names[level][id]; !ok {
		return levelNotFound[level]
	}
	f.names[level][id] = newName
	if level == models.LevelSubject {
		f.subjects[id].Name = newName
	}
	return nil
}

func (f *fakeCatalog) Delete(_ context.Context, level models.CatalogLevel, id int64) error {
	if _, ok := f.names[level][id]; !ok {
		return levelNotFound[level]
	}
	delete(f.names[level], id)
	if level == models.LevelSubject {
		delete(f.subjects, id)
	}
	return nil
}

func (f *fakeCatalog) Exists(_ context.Context, level models.CatalogLevel, id int64) (bool, error) {
	_, ok := f.names[level][id]
	return ok, nil
}

func (f *fakeCatalog) GetSubject(_ context.Context, id int64) (*models.Subject, error) {
	subject, ok := f.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	return subject, nil
}

func (f *fakeCatalog) ListSchoolYears(_ context.Context) ([]*models.SchoolYear, error) {
	var years []*models.SchoolYear
	for id, year := range f.names[models.LevelYear] {
		years = append(years, &models.SchoolYear{ID: id, Year: year})
	}
	return years, nil
}

func (f *fakeCatalog) ListTree(ctx context.Context) ([]*models.SchoolYear, error) {
	return f.ListSchoolYears(ctx)
}

// addSubject seeds a subject directly, bypassing parent checks
func (f *fakeCatalog) addSubject(name string) *models.Subject {
	subject := &models.Subject{Name: name}
	_ = f.CreateSubject(context.Background(), subject)
	return subject
}

// fakeUsers satisfies userStore and userResolver
type fakeUsers struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*models.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperrors.ErrUserExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	if user.Profile != nil {
		user.Profile.UserID = user.ID
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) HasRole(_ context.Context, userID int64, role models.Role) (bool, error) {
	user, ok := f.users[userID]
	return ok && user.Role == role, nil
}

func (f *fakeUsers) List(_ context.Context, role *models.Role, offset uint64, limit int) ([]*models.User, int64, error) {
	var matched []*models.User
	for _, user := range f.users {
		if role == nil || user.Role == *role {
			matched = append(matched, user)
		}
	}
	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeUsers) UpsertProfile(_ context.Context, profile *models.Profile) error {
	user, ok := f.users[profile.UserID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Profile = profile
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// add seeds a user with a profile and returns it
func (f *fakeUsers) add(username string, role models.Role, firstName, lastName string) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@present.edu",
		Role:     role,
	}
	if firstName != "" || lastName != "" {
		user.Profile = &models.Profile{FirstName: firstName, LastName: lastName}
	}
	_ = f.Create(context.Background(), user)
	return user
}

// fakeMembership keeps assignments as structured entries in insert order
type membershipEntry struct {
	role      models.Role
	subjectID int64
	userID    int64
}

type fakeMembership struct {
	users   *fakeUsers
	entries []membershipEntry
}

func newFakeMembership(users *fakeUsers) *fakeMembership {
	return &fakeMembership{users: users}
}

func (f *fakeMembership) find(role models.Role, subjectID, userID int64) int {
	for i, e := range f.entries {
		if e.role == role && e.subjectID == subjectID && e.userID == userID {
			return i
		}
	}
	return -1
}

func (f *fakeMembership) Assign(_ context.Context, role models.Role, subjectID, userID int64) error {
	if f.find(role, subjectID, userID) >= 0 {
		return apperrors.ErrAlreadyAssigned
	}
	f.entries = append(f.entries, membershipEntry{role: role, subjectID: subjectID, userID: userID})
	return nil
}

func (f *fakeMembership) Remove(_ context.Context, role models.Role, subjectID, userID int64) error {
	if i := f.find(role, subjectID, userID); i >= 0 {
		f.entries = append(f.entries[:i], f.entries[i+1:]...)
	}
	return nil
}

func (f *fakeMembership) IsMember(_ context.Context, role models.Role, subjectID, userID int64) (bool, error) {
	return f.find(role, subjectID, userID) >= 0, nil
}

func (f *fakeMembership) ListMembers(_ context.Context, role models.Role, subjectID int64) ([]*models.User, error) {
	var result []*models.User
	for _, e := range f.entries {
		if e.role != role || e.subjectID != subjectID {
			continue
		}
		if user, ok := f.users.users[e.userID]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

// fakeSubmissions satisfies submissionStore
type fakeSubmissions struct {
	folders  map[int64]*models.SubjectFolder
	tasks    map[int64]*models.SubjectSubmission
	attempts []*models.StudentSubmission
	nextID   int64
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{
		folders: make(map[int64]*models.SubjectFolder),
		tasks:   make(map[int64]*models.SubjectSubmission),
	}
}

func (f *fakeSubmissions) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeSubmissions) CreateFolder(_ context.Context, folder *models.SubjectFolder) error {
	folder.ID = f.id()
	folder.CreatedAt = time.Now()
	f.folders[folder.ID] = folder
	return nil
}

func (f *fakeSubmissions) GetFolder(_ context.Context, id int64) (*models.SubjectFolder, error) {
	folder, ok := f.folders[id]
	if !ok {
		return nil, apperrors.ErrFolderNotFound
	}
	return folder, nil
}

func (f *fakeSubmissions) ListFolders(_ context.Context, subjectID int64) ([]*models.SubjectFolder, error) {
	var folders []*models.SubjectFolder
	for _, folder := range f.folders {
		if folder.SubjectID == subjectID {
			folders = append(folders, folder)
		}
	}
	return folders, nil
}

func (f *fakeSubmissions) DeleteFolder(_ context.Context, id int64) error {
	if _, ok := f.folders[id]; !ok {
		return apperrors.ErrFolderNotFound
	}
	delete(f.folders, id)
	return nil
}

func (f *fakeSubmissions) CreateTask(_ context.Context, task *models.SubjectSubmission) error {
	task.ID = f.id()
	task.CreatedAt = time.Now()
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeSubmissions) GetTask(_ context.Context, id int64) (*models.SubjectSubmission, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeSubmissions) ListTasksByFolder(_ context.Context, folderID int64, visibleOnly bool) ([]*models.SubjectSubmission, error) {
	var tasks []*models.SubjectSubmission
	for _, task := range f.tasks {
		if task.FolderID != folderID {
			continue
		}
		if visibleOnly && !task.IsVisible {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (f *fakeSubmissions) SubjectIDForTask(_ context.Context, taskID int64) (int64, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return 0, apperrors.ErrTaskNotFound
	}
	folder, ok := f.folders[task.FolderID]
	if !ok {
		return 0, apperrors.ErrFolderNotFound
	}
	return folder.SubjectID, nil
}

func (f *fakeSubmissions) CreateAttempt(_ context.Context, taskID, studentID int64, files []*models.SubmissionFile) (*models.StudentSubmission, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}

	count := 0
	for _, a := range f.attempts {
		if a.SubmissionID == taskID && a.StudentID == studentID {
			count++
		}
	}
	if count >= task.MaxAttempts {
		return nil, apperrors.NewAttemptLimitError(
			fmt.Sprintf("maximum of %d attempts reached", task.MaxAttempts))
	}

	attempt := &models.StudentSubmission{
		ID:            f.id(),
		SubmissionID:  taskID,
		StudentID:     studentID,
		AttemptNumber: count + 1,
		SubmittedAt:   time.Now(),
		Files:         files,
	}
	for _, file := range files {
		file.ParentSubmissionID = attempt.ID
	}
	f.attempts = append(f.attempts, attempt)
	return attempt, nil
}

func (f *fakeSubmissions) GetAttempt(_ context.Context, id int64) (*models.StudentSubmission, error) {
	for _, a := range f.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.ErrAttemptNotFound
}

func (f *fakeSubmissions) ListAttempts(_ context.Context, taskID int64, studentID *int64) ([]*models.StudentSubmission, error) {
	var attempts []*models.StudentSubmission
	for _, a := range f.attempts {
		if a.SubmissionID != taskID {
			continue
		}
		if studentID != nil && a.StudentID != *studentID {
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (f *fakeSubmissions) Grade(_ context.Context, attemptID int64, grade float64, feedback string) error {
	for _, a := range f.attempts {
		if a.ID == attemptID {
			now := time.Now()
			a.Grade = &grade
			a.Feedback = &feedback
			a.GradedAt = &now
			return nil
		}
	}
	return apperrors.ErrAttemptNotFound
}

// fakeAttendance satisfies attendanceStore
type fakeAttendance struct {
	sessions map[int64]*models.AttendanceSession
	records  map[string]*models.AttendanceRecord
	nextID   int64
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{
		sessions: make(map[int64]*models.AttendanceSession),
		records:  make(map[string]*models.AttendanceRecord),
	}
}

func (f *fakeAttendance) CreateSession(_ context.Context, session *models.AttendanceSession) error {
	f.nextID++
	session.ID = f.nextID
	session.CreatedAt = time.Now()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeAttendance) GetSession(_ context.Context, id int64) (*models.AttendanceSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeAttendance) ListSessions(_ context.Context, subjectID int64) ([]*models.AttendanceSession, error) {
	var sessions []*models.AttendanceSession
	for _, session := range f.sessions {
		if session.SubjectID == subjectID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (f *fakeAttendance) Mark(_ context.Context, record *models.AttendanceRecord) error {
	key := fmt.Sprintf("%d/%d", record.SessionID, record.StudentID)
	if existing, ok := f.records[key]; ok {
		existing.Status = record.Status
		existing.MarkedAt = time.Now()
		record.ID = existing.ID
		return nil
	}
	f.nextID++
	record.ID = f.nextID
	record.MarkedAt = time.Now()
	f.records[key] = record
	return nil
}

func (f *fakeAttendance) ListSessionRecords(_ context.Context, sessionID int64) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	for _, record := range f.records {
		if record.SessionID == sessionID {
			records = append(records, record)
		}
	}
	return records, nil
}

// fakeActivityLogs satisfies activityStore
type fakeActivityLogs struct {
	entries   []*models.ActivityLog
	insertErr error
}

func (f *fakeActivityLogs) Insert(_ context.Context, entry *models.ActivityLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	entry.ID = int64(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityLogs) List(_ context.Context, actionType *models.ActionType, offset uint64, limit int) ([]*models.ActivityLog, int64, error) {
	var matched []*models.ActivityLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if actionType == nil || entry.ActionType == *actionType {
			matched = append(matched, entry)
		}
	}
	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// fakeTokens satisfies tokenIssuer
type fakeTokens struct {
	err error
}

func (f *fakeTokens) GenerateTokenPair(user *models.User) (string, string, int, error) {
	if f.err != nil {
		return "", "", 0, f.err
	}
	return fmt.Sprintf("access-%d", user.ID), fmt.Sprintf("refresh-%d", user.ID), 3600, nil
}

var errStoreDown = errors.New("store unavailable")

func gradeOf(v float64) *float64 { return &v }
