package services

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// txStore is a mock store whose state can be restored when a mock transaction fails
type txStore interface {
	snapshot() (restore func())
}

// mockTransactor is a mock implementation of Transactor
//
// It runs fn inline and restores every registered store when fn fails.
type mockTransactor struct {
	stores []txStore
	err    error
	calls  int
	failed int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}

	restores := make([]func(), len(m.stores))
	for i, s := range m.stores {
		restores[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		m.failed++
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// mockFileStore is a mock implementation of FileStore
type mockFileStore struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (m *mockFileStore) Delete(ctx context.Context, fileURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, fileURL)
	return nil
}

func (m *mockFileStore) deletedFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := slices.Clone(m.deleted)
	slices.Sort(files)
	return files
}

// mockCourseRepository is an in-memory implementation of CourseRepository
type mockCourseRepository struct {
	mu            sync.Mutex
	courses       map[int]*models.Course
	lectures      *mockLectureRepository
	nextID        int
	err           error
	lockErr       error
	addStudentErr error
	locked        []int
}

func newMockCourseRepository(lectures *mockLectureRepository) *mockCourseRepository {
	return &mockCourseRepository{courses: map[int]*models.Course{}, lectures: lectures, nextID: 1}
}

func (m *mockCourseRepository) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[int]*models.Course, len(m.courses))
	for id, c := range m.courses {
		saved[id] = cloneCourse(c)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.courses = saved
	}
}

func (m *mockCourseRepository) get(id int) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrNotFound, "course not found")
	}
	return c, nil
}

func (m *mockCourseRepository) withLectures(c *models.Course) *models.Course {
	out := cloneCourse(c)
	out.Lectures = []int{}
	for _, l := range m.lectures.byCourse(c.ID) {
		out.Lectures = append(out.Lectures, l.ID)
	}
	return out
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return m.withLectures(c), nil
}

func (m *mockCourseRepository) LockByID(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return m.lockErr
	}
	if _, err := m.get(id); err != nil {
		return err
	}
	m.locked = append(m.locked, id)
	return nil
}

func (m *mockCourseRepository) GetInstructorID(ctx context.Context, id int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	c, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return c.InstructorID, nil
}

func (m *mockCourseRepository) GetAll(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}

	var matched []models.Course
	for _, id := range slices.Sorted(maps.Keys(m.courses)) {
		c := m.courses[id]
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		matched = append(matched, *m.withLectures(c))
	}

	start := min((filter.Page-1)*filter.Limit, len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (m *mockCourseRepository) GetByInstructor(ctx context.Context, instructorID int) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	courses := []models.Course{}
	for _, id := range slices.Sorted(maps.Keys(m.courses)) {
		if m.courses[id].InstructorID == instructorID {
			courses = append(courses, *m.withLectures(m.courses[id]))
		}
	}
	return courses, nil
}

func (m *mockCourseRepository) GetByStudent(ctx context.Context, studentID int) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	courses := []models.Course{}
	for _, id := range slices.Sorted(maps.Keys(m.courses)) {
		if m.courses[id].IsEnrolled(studentID) {
			courses = append(courses, *m.withLectures(m.courses[id]))
		}
	}
	return courses, nil
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	course.ID = m.nextID
	m.nextID++
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []int{}
	}
	m.courses[course.ID] = cloneCourse(course)
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, err := m.get(course.ID)
	if err != nil {
		return err
	}
	stored.Title = course.Title
	stored.Description = course.Description
	stored.Category = course.Category
	stored.Thumbnail = course.Thumbnail
	stored.IsPublished = course.IsPublished
	return nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepository) AddStudent(ctx context.Context, courseID, studentID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addStudentErr != nil {
		return m.addStudentErr
	}
	c, err := m.get(courseID)
	if err != nil {
		return err
	}
	if c.IsEnrolled(studentID) {
		return apperrors.New(apperrors.ErrDuplicateEnrollment, "already enrolled in this course")
	}
	c.EnrolledStudents = append(c.EnrolledStudents, studentID)
	return nil
}

func (m *mockCourseRepository) RemoveStudents(ctx context.Context, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if c, ok := m.courses[courseID]; ok {
		c.EnrolledStudents = []int{}
	}
	return nil
}

func (m *mockCourseRepository) SyncLectureCount(ctx context.Context, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if c, ok := m.courses[courseID]; ok {
		c.TotalLectures = len(m.lectures.byCourse(courseID))
	}
	return nil
}

// mockLectureRepository is an in-memory implementation of LectureRepository
type mockLectureRepository struct {
	mu        sync.Mutex
	lectures  map[int]*models.Lecture
	nextID    int
	err       error
	createErr error
	deleteErr error
}

func newMockLectureRepository() *mockLectureRepository {
	return &mockLectureRepository{lectures: map[int]*models.Lecture{}, nextID: 1}
}

func (m *mockLectureRepository) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := maps.Clone(m.lectures)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.lectures = saved
	}
}

// byCourse returns the lectures of a course sorted by order
func (m *mockLectureRepository) byCourse(courseID int) []models.Lecture {
	m.mu.Lock()
	defer m.mu.Unlock()
	lectures := []models.Lecture{}
	for _, l := range m.lectures {
		if l.CourseID == courseID {
			lectures = append(lectures, *l)
		}
	}
	slices.SortFunc(lectures, func(a, b models.Lecture) int { return a.Order - b.Order })
	return lectures
}

func (m *mockLectureRepository) GetByID(ctx context.Context, id int) (*models.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	l, ok := m.lectures[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrNotFound, "lecture not found")
	}
	out := *l
	return &out, nil
}

func (m *mockLectureRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Lecture, error) {
	m.mu.Lock()
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.byCourse(courseID), nil
}

func (m *mockLectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, l := range m.lectures {
		if l.CourseID == lecture.CourseID && l.Order == lecture.Order {
			return errors.New("duplicate lecture order")
		}
	}
	lecture.ID = m.nextID
	m.nextID++
	stored := *lecture
	m.lectures[lecture.ID] = &stored
	return nil
}

func (m *mockLectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored, ok := m.lectures[lecture.ID]
	if !ok {
		return apperrors.New(apperrors.ErrNotFound, "lecture not found")
	}
	updated := *lecture
	updated.CourseID = stored.CourseID
	updated.Order = stored.Order
	m.lectures[lecture.ID] = &updated
	return nil
}

func (m *mockLectureRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.lectures[id]; !ok {
		return apperrors.New(apperrors.ErrNotFound, "lecture not found")
	}
	delete(m.lectures, id)
	return nil
}

func (m *mockLectureRepository) DeleteByCourseID(ctx context.Context, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for id, l := range m.lectures {
		if l.CourseID == courseID {
			delete(m.lectures, id)
		}
	}
	return nil
}

// mockProgressRepository is an in-memory implementation of ProgressRepository
type mockProgressRepository struct {
	mu                 sync.Mutex
	records            map[int]*models.Progress
	nextID             int
	nextEntryID        int
	err                error
	attemptErr         error
	addLectureCalls    int
	removeLectureCalls int
}

func newMockProgressRepository() *mockProgressRepository {
	return &mockProgressRepository{records: map[int]*models.Progress{}, nextID: 1, nextEntryID: 1}
}

func (m *mockProgressRepository) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[int]*models.Progress, len(m.records))
	for id, p := range m.records {
		saved[id] = cloneProgress(p)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.records = saved
	}
}

func (m *mockProgressRepository) find(studentID, courseID int) *models.Progress {
	for _, p := range m.records {
		if p.StudentID == studentID && p.CourseID == courseID {
			return p
		}
	}
	return nil
}

func (m *mockProgressRepository) entry(lectureProgressID int) *models.LectureProgress {
	for _, p := range m.records {
		for i := range p.LecturesProgress {
			if p.LecturesProgress[i].ID == lectureProgressID {
				return &p.LecturesProgress[i]
			}
		}
	}
	return nil
}

// stored returns a copy of the stored progress of a student
func (m *mockProgressRepository) stored(studentID, courseID int) *models.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.find(studentID, courseID); p != nil {
		return cloneProgress(p)
	}
	return nil
}

func (m *mockProgressRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p := m.find(studentID, courseID)
	if p == nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "progress not found")
	}
	return cloneProgress(p), nil
}

func (m *mockProgressRepository) GetSnapshotsByStudent(ctx context.Context, studentID int) (map[int]models.ProgressSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	snapshots := map[int]models.ProgressSnapshot{}
	for _, p := range m.records {
		if p.StudentID == studentID {
			snapshots[p.CourseID] = p.Snapshot()
		}
	}
	return snapshots, nil
}

func (m *mockProgressRepository) Create(ctx context.Context, progress *models.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.find(progress.StudentID, progress.CourseID) != nil {
		return apperrors.New(apperrors.ErrDuplicateEnrollment, "already enrolled in this course")
	}
	progress.ID = m.nextID
	m.nextID++
	for i := range progress.LecturesProgress {
		progress.LecturesProgress[i].ID = m.nextEntryID
		m.nextEntryID++
	}
	m.records[progress.ID] = cloneProgress(progress)
	return nil
}

func (m *mockProgressRepository) CompleteLecture(ctx context.Context, progressID, lectureID int, completedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.records[progressID]
	if !ok {
		return false, nil
	}
	lp := p.LectureProgress(lectureID)
	if lp == nil || lp.Completed {
		return false, nil
	}
	lp.Completed = true
	lp.CompletedAt = &completedAt
	return true, nil
}

func (m *mockProgressRepository) SetCurrentLecture(ctx context.Context, progressID, lectureID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if p, ok := m.records[progressID]; ok {
		p.CurrentLectureID = &lectureID
	}
	return nil
}

func (m *mockProgressRepository) AddQuizAttempt(ctx context.Context, lectureProgressID int, attempt models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attemptErr != nil {
		return m.attemptErr
	}
	lp := m.entry(lectureProgressID)
	if lp == nil {
		return apperrors.New(apperrors.ErrNotFound, "lecture progress not found")
	}
	lp.QuizAttempts = append(lp.QuizAttempts, attempt)
	return nil
}

func (m *mockProgressRepository) RaiseBestScore(ctx context.Context, lectureProgressID, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if lp := m.entry(lectureProgressID); lp != nil {
		lp.BestScore = max(lp.BestScore, score)
	}
	return nil
}

func (m *mockProgressRepository) AddLectureToCourse(ctx context.Context, courseID, lectureID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLectureCalls++
	if m.err != nil {
		return 0, m.err
	}
	var updated int64
	for _, p := range m.records {
		if p.CourseID != courseID {
			continue
		}
		p.LecturesProgress = append(p.LecturesProgress, models.LectureProgress{
			ID:           m.nextEntryID,
			LectureID:    lectureID,
			QuizAttempts: []models.QuizAttempt{},
		})
		m.nextEntryID++
		p.TotalLectures++
		if p.CurrentLectureID == nil {
			id := lectureID
			p.CurrentLectureID = &id
		}
		updated++
	}
	return updated, nil
}

func (m *mockProgressRepository) RemoveLectureFromCourse(ctx context.Context, courseID, lectureID int, replacementID *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLectureCalls++
	if m.err != nil {
		return m.err
	}
	for _, p := range m.records {
		if p.CourseID != courseID {
			continue
		}
		if p.LectureProgress(lectureID) != nil {
			p.TotalLectures--
			p.LecturesProgress = slices.DeleteFunc(p.LecturesProgress, func(lp models.LectureProgress) bool {
				return lp.LectureID == lectureID
			})
		}
		if p.CurrentLectureID != nil && *p.CurrentLectureID == lectureID {
			p.CurrentLectureID = replacementID
		}
	}
	return nil
}

func (m *mockProgressRepository) DeleteByCourseID(ctx context.Context, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for id, p := range m.records {
		if p.CourseID == courseID {
			delete(m.records, id)
		}
	}
	return nil
}

func cloneCourse(c *models.Course) *models.Course {
	out := *c
	out.Lectures = slices.Clone(c.Lectures)
	out.EnrolledStudents = slices.Clone(c.EnrolledStudents)
	return &out
}

func cloneProgress(p *models.Progress) *models.Progress {
	out := *p
	if p.CurrentLectureID != nil {
		id := *p.CurrentLectureID
		out.CurrentLectureID = &id
	}
	out.LecturesProgress = make([]models.LectureProgress, len(p.LecturesProgress))
	for i, lp := range p.LecturesProgress {
		lp.QuizAttempts = slices.Clone(lp.QuizAttempts)
		out.LecturesProgress[i] = lp
	}
	return &out
}

// testEnv wires every service to the same in-memory stores
type testEnv struct {
	tx       *mockTransactor
	courses  *mockCourseRepository
	lectures *mockLectureRepository
	progress *mockProgressRepository
	files    *mockFileStore

	courseSvc     *courseService
	lectureSvc    *lectureService
	progressSvc   *progressService
	quizSvc       *quizService
	enrollmentSvc *enrollmentService
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	lectures := newMockLectureRepository()
	courses := newMockCourseRepository(lectures)
	progress := newMockProgressRepository()
	files := &mockFileStore{}
	tx := &mockTransactor{stores: []txStore{courses, lectures, progress}}

	return &testEnv{
		tx:            tx,
		courses:       courses,
		lectures:      lectures,
		progress:      progress,
		files:         files,
		courseSvc:     NewCourseService(tx, courses, lectures, progress, files, logger),
		lectureSvc:    NewLectureService(tx, courses, lectures, progress, files, logger),
		progressSvc:   NewProgressService(tx, courses, lectures, progress),
		quizSvc:       NewQuizService(tx, lectures, progress),
		enrollmentSvc: NewEnrollmentService(tx, courses, lectures, progress, logger),
	}
}

// addCourse stores a course owned by the instructor
func (e *testEnv) addCourse(instructorID int) *models.Course {
	course := &models.Course{
		Title:        "Go Basics",
		Description:  "Learn Go",
		InstructorID: instructorID,
		Category:     models.DefaultCategory,
	}
	_ = e.courses.Create(context.Background(), course)
	return course
}

// addReading stores a reading lecture with the given order
func (e *testEnv) addReading(courseID, order int) *models.Lecture {
	lecture := &models.Lecture{
		CourseID:     courseID,
		Title:        "Reading",
		Type:         models.LectureTypeReading,
		Order:        order,
		Content:      "text",
		PassingScore: models.DefaultPassingScore,
	}
	_ = e.lectures.Create(context.Background(), lecture)
	_ = e.courses.SyncLectureCount(context.Background(), courseID)
	return lecture
}

// addQuiz stores a quiz lecture with the given number of questions, the correct answer is always "a"
func (e *testEnv) addQuiz(courseID, order, questions int) *models.Lecture {
	lecture := &models.Lecture{
		CourseID:     courseID,
		Title:        "Quiz",
		Type:         models.LectureTypeQuiz,
		Order:        order,
		PassingScore: models.DefaultPassingScore,
	}
	for range questions {
		lecture.Questions = append(lecture.Questions, models.Question{
			QuestionText:  "Pick a",
			Options:       []string{"a", "b"},
			CorrectAnswer: "a",
			Explanation:   "a is correct",
		})
	}
	_ = e.lectures.Create(context.Background(), lecture)
	_ = e.courses.SyncLectureCount(context.Background(), courseID)
	return lecture
}

// enroll enrolls a student through the enrollment service
func (e *testEnv) enroll(t *testing.T, courseID, studentID int) {
	t.Helper()
	_, err := e.enrollmentSvc.Enroll(context.Background(), courseID, studentID)
	require.NoError(t, err)
}

// answers builds a submission with correct answers for the first n of total questions
func answers(correct, total int) *models.SubmitQuizRequest {
	req := &models.SubmitQuizRequest{}
	for i := range total {
		option := "b"
		if i < correct {
			option = "a"
		}
		req.Answers = append(req.Answers, models.QuizAnswer{SelectedOption: option})
	}
	return req
}

func student(id int) models.Identity {
	return models.Identity{UserID: id, Role: models.RoleStudent}
}

func instructor(id int) models.Identity {
	return models.Identity{UserID: id, Role: models.RoleInstructor}
}
