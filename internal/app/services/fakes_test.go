package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/repositories"
	"github.com/oguzhan/projecthub/internal/db"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

// In-memory stores mirroring the repository semantics, including the
// compare-and-set transitions and sentinel errors.

var testLogger = zerolog.Nop()

type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) CreateUserTx(ctx context.Context, q repositories.Querier, user *models.User) (int64, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) UpdateFullName(ctx context.Context, userID int64, fullName string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.FullName = fullName
	return nil
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

type fakeTokenStore struct {
	tokens  map[string]fakeToken
	revoked map[string]bool
}

type fakeToken struct {
	userID int64
	expiry time.Time
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]fakeToken), revoked: make(map[string]bool)}
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = fakeToken{userID: userID, expiry: expiryDate}
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	return t.userID, t.expiry, f.revoked[token], nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for token, t := range f.tokens {
		if t.userID == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

type fakeStudentStore struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[int64]*models.Student), nextID: 1}
}

func (f *fakeStudentStore) add(userID int64, regNo string, semester int) *models.Student {
	s := &models.Student{
		ID:             f.nextID,
		UserID:         userID,
		RegistrationNo: regNo,
		Department:     "CSE",
		Semester:       semester,
		User:           &models.User{ID: userID, RoleType: models.RoleStudent},
	}
	f.nextID++
	f.students[s.ID] = s
	return s
}

func (f *fakeStudentStore) CreateStudentTx(ctx context.Context, q repositories.Querier, student *models.Student) error {
	for _, s := range f.students {
		if s.RegistrationNo == student.RegistrationNo {
			return apperrors.ErrRegistrationNoExists
		}
	}
	student.ID = f.nextID
	f.nextID++
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentStore) GetStudentByID(ctx context.Context, studentID int64) (*models.Student, error) {
	if s, ok := f.students[studentID]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetStudentByRegistrationNo(ctx context.Context, registrationNo string) (*models.Student, error) {
	for _, s := range f.students {
		if s.RegistrationNo == registrationNo {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) ListStudents(ctx context.Context, semester, offset, limit int) ([]*models.Student, error) {
	var result []*models.Student
	for _, s := range f.students {
		if semester <= 0 || s.Semester == semester {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		end := offset + limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (f *fakeStudentStore) LockStudentsTx(ctx context.Context, q repositories.Querier, studentIDs ...int64) error {
	for _, id := range studentIDs {
		if _, ok := f.students[id]; !ok {
			return apperrors.ErrStudentNotFound
		}
	}
	return nil
}

func (f *fakeStudentStore) UpdateStudent(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentStore) ShiftAllSemesters(ctx context.Context) (int64, error) {
	for _, s := range f.students {
		s.Semester++
	}
	return int64(len(f.students)), nil
}

func (f *fakeStudentStore) CountStudents(ctx context.Context, semester int) (int64, error) {
	var count int64
	for _, s := range f.students {
		if semester <= 0 || s.Semester == semester {
			count++
		}
	}
	return count, nil
}

type fakeMentorStore struct {
	mentors map[int64]*models.Mentor
	loads   map[int64]models.MentorLoad
	nextID  int64
}

func newFakeMentorStore() *fakeMentorStore {
	return &fakeMentorStore{
		mentors: make(map[int64]*models.Mentor),
		loads:   make(map[int64]models.MentorLoad),
		nextID:  1,
	}
}

func (f *fakeMentorStore) add(userID int64, maxPT1, maxPT2, maxFY int) *models.Mentor {
	m := &models.Mentor{
		ID:           f.nextID,
		UserID:       userID,
		Degree:       "PhD",
		MaxPT1:       maxPT1,
		MaxPT2:       maxPT2,
		MaxFinalYear: maxFY,
		User:         &models.User{ID: userID, RoleType: models.RoleMentor},
	}
	f.nextID++
	f.mentors[m.ID] = m
	return m
}

func (f *fakeMentorStore) setLoad(mentorID int64, load models.MentorLoad) {
	f.loads[mentorID] = load
}

func (f *fakeMentorStore) CreateMentorTx(ctx context.Context, q repositories.Querier, mentor *models.Mentor) error {
	mentor.ID = f.nextID
	f.nextID++
	f.mentors[mentor.ID] = mentor
	return nil
}

func (f *fakeMentorStore) GetMentorByID(ctx context.Context, mentorID int64) (*models.Mentor, error) {
	if m, ok := f.mentors[mentorID]; ok {
		return m, nil
	}
	return nil, apperrors.ErrMentorNotFound
}

func (f *fakeMentorStore) GetMentorByUserID(ctx context.Context, userID int64) (*models.Mentor, error) {
	for _, m := range f.mentors {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, apperrors.ErrMentorNotFound
}

func (f *fakeMentorStore) ListMentors(ctx context.Context) ([]*models.Mentor, error) {
	var result []*models.Mentor
	for _, m := range f.mentors {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeMentorStore) GetMentorLoad(ctx context.Context, mentorID int64) (models.MentorLoad, error) {
	return f.loads[mentorID], nil
}

func (f *fakeMentorStore) GetMentorLoadTx(ctx context.Context, q repositories.Querier, mentorID int64) (models.MentorLoad, error) {
	return f.loads[mentorID], nil
}

func (f *fakeMentorStore) LockMentorTx(ctx context.Context, q repositories.Querier, mentorID int64) (*models.Mentor, error) {
	if m, ok := f.mentors[mentorID]; ok {
		return m, nil
	}
	return nil, apperrors.ErrMentorNotFound
}

func (f *fakeMentorStore) UpdateCapacity(ctx context.Context, mentorID int64, maxPT1, maxPT2, maxFinalYear int) error {
	m, ok := f.mentors[mentorID]
	if !ok {
		return apperrors.ErrMentorNotFound
	}
	m.MaxPT1, m.MaxPT2, m.MaxFinalYear = maxPT1, maxPT2, maxFinalYear
	return nil
}

func (f *fakeMentorStore) UpdateAllCapacities(ctx context.Context, phase models.ProjectPhase, value int) (int64, error) {
	for _, m := range f.mentors {
		switch phase {
		case models.PhasePT1:
			m.MaxPT1 = value
		case models.PhasePT2:
			m.MaxPT2 = value
		case models.PhaseFinalYear:
			m.MaxFinalYear = value
		}
	}
	return int64(len(f.mentors)), nil
}

func (f *fakeMentorStore) CountMentors(ctx context.Context) (int64, error) {
	return int64(len(f.mentors)), nil
}

type fakeTeamStore struct {
	teams  map[int64]*models.Team
	nextID int64
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: make(map[int64]*models.Team), nextID: 1}
}

func (f *fakeTeamStore) activeTeamOf(studentID int64) *models.Team {
	for _, t := range f.teams {
		if t.Status == models.TeamActive && t.HasMember(studentID) {
			return t
		}
	}
	return nil
}

func (f *fakeTeamStore) CreateTeamTx(ctx context.Context, q repositories.Querier, team *models.Team) error {
	team.ID = f.nextID
	f.nextID++
	team.Status = models.TeamActive
	team.CreatedAt = time.Now()
	team.LastActivity = team.CreatedAt
	stored := *team
	stored.Student1, stored.Student2, stored.Mentor = nil, nil, nil
	f.teams[team.ID] = &stored
	return nil
}

func (f *fakeTeamStore) GetTeamByID(ctx context.Context, teamID int64) (*models.Team, error) {
	if t, ok := f.teams[teamID]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTeamNotFound
}

func (f *fakeTeamStore) GetActiveTeamByStudent(ctx context.Context, studentID int64) (*models.Team, error) {
	if t := f.activeTeamOf(studentID); t != nil {
		return t, nil
	}
	return nil, apperrors.ErrTeamNotFound
}

func (f *fakeTeamStore) GetActiveTeamByStudentTx(ctx context.Context, q repositories.Querier, studentID int64) (*models.Team, error) {
	return f.GetActiveTeamByStudent(ctx, studentID)
}

func (f *fakeTeamStore) ListActiveTeams(ctx context.Context) ([]*models.Team, error) {
	var result []*models.Team
	for _, t := range f.teams {
		if t.Status == models.TeamActive {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTeamStore) ListTeamsByMentor(ctx context.Context, mentorID int64) ([]*models.Team, error) {
	var result []*models.Team
	for _, t := range f.teams {
		if t.Status == models.TeamActive && t.MentorID != nil && *t.MentorID == mentorID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTeamStore) SetMentorTx(ctx context.Context, q repositories.Querier, teamID int64, mentorID *int64) error {
	t, ok := f.teams[teamID]
	if !ok || t.Status != models.TeamActive {
		return apperrors.ErrTeamNotFound
	}
	t.MentorID = mentorID
	return nil
}

func (f *fakeTeamStore) UpdateMembers(ctx context.Context, team *models.Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return apperrors.ErrTeamNotFound
	}
	stored := *team
	stored.Student1, stored.Student2, stored.Mentor = nil, nil, nil
	f.teams[team.ID] = &stored
	return nil
}

func (f *fakeTeamStore) DisbandTeamsBySemester(ctx context.Context, semester int) (int64, error) {
	// Callers resolve semester membership through the student store; the
	// fake is only exercised via AdminService which passes validated input.
	var count int64
	for _, t := range f.teams {
		if t.Status == models.TeamActive {
			t.Status = models.TeamDisbanded
			t.MentorID = nil
			count++
		}
	}
	return count, nil
}

func (f *fakeTeamStore) TouchActivity(ctx context.Context, teamID int64) error {
	if t, ok := f.teams[teamID]; ok {
		t.LastActivity = time.Now()
	}
	return nil
}

func (f *fakeTeamStore) CountActiveTeams(ctx context.Context) (int64, error) {
	var count int64
	for _, t := range f.teams {
		if t.Status == models.TeamActive {
			count++
		}
	}
	return count, nil
}

type fakeInvitationStore struct {
	invitations map[int64]*models.Invitation
	nextID      int64
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invitations: make(map[int64]*models.Invitation), nextID: 1}
}

func (f *fakeInvitationStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	for _, existing := range f.invitations {
		if existing.Status != models.InvitationPending {
			continue
		}
		samePair := (existing.SenderID == inv.SenderID && existing.RecipientID == inv.RecipientID) ||
			(existing.SenderID == inv.RecipientID && existing.RecipientID == inv.SenderID)
		if samePair {
			return apperrors.ErrDuplicateInvite
		}
	}
	inv.ID = f.nextID
	f.nextID++
	inv.Status = models.InvitationPending
	inv.CreatedAt = time.Now()
	stored := *inv
	stored.Sender, stored.Recipient = nil, nil
	f.invitations[inv.ID] = &stored
	return nil
}

func (f *fakeInvitationStore) GetInvitationByID(ctx context.Context, invitationID int64) (*models.Invitation, error) {
	if inv, ok := f.invitations[invitationID]; ok {
		return inv, nil
	}
	return nil, apperrors.ErrInvitationNotFound
}

func (f *fakeInvitationStore) HasPendingBetween(ctx context.Context, studentA, studentB int64) (bool, error) {
	for _, inv := range f.invitations {
		if inv.Status != models.InvitationPending {
			continue
		}
		if (inv.SenderID == studentA && inv.RecipientID == studentB) ||
			(inv.SenderID == studentB && inv.RecipientID == studentA) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationStore) TransitionStatus(ctx context.Context, invitationID int64, next models.InvitationStatus) error {
	inv, ok := f.invitations[invitationID]
	if !ok || inv.Status != models.InvitationPending {
		return apperrors.ErrInvalidState
	}
	inv.Status = next
	return nil
}

func (f *fakeInvitationStore) TransitionStatusTx(ctx context.Context, q repositories.Querier, invitationID int64, next models.InvitationStatus) error {
	return f.TransitionStatus(ctx, invitationID, next)
}

func (f *fakeInvitationStore) WithdrawPendingInvolvingTx(ctx context.Context, q repositories.Querier, exceptID int64, studentIDs ...int64) (int64, error) {
	var count int64
	for _, inv := range f.invitations {
		if inv.Status != models.InvitationPending || inv.ID == exceptID {
			continue
		}
		for _, id := range studentIDs {
			if inv.SenderID == id || inv.RecipientID == id {
				inv.Status = models.InvitationWithdrawn
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeInvitationStore) ListInvitationsForStudent(ctx context.Context, studentID int64) ([]*models.Invitation, error) {
	var result []*models.Invitation
	for _, inv := range f.invitations {
		if inv.SenderID == studentID || inv.RecipientID == studentID {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

type fakeMentorRequestStore struct {
	requests map[int64]*models.MentorRequest
	nextID   int64
}

func newFakeMentorRequestStore() *fakeMentorRequestStore {
	return &fakeMentorRequestStore{requests: make(map[int64]*models.MentorRequest), nextID: 1}
}

func (f *fakeMentorRequestStore) CreateMentorRequest(ctx context.Context, req *models.MentorRequest) error {
	for _, existing := range f.requests {
		if existing.TeamID == req.TeamID && existing.Status == models.RequestPending {
			return apperrors.ErrDuplicateRequest
		}
	}
	req.ID = f.nextID
	f.nextID++
	req.Status = models.RequestPending
	req.CreatedAt = time.Now()
	stored := *req
	stored.Team, stored.Mentor = nil, nil
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeMentorRequestStore) GetMentorRequestByID(ctx context.Context, requestID int64) (*models.MentorRequest, error) {
	if req, ok := f.requests[requestID]; ok {
		return req, nil
	}
	return nil, apperrors.ErrMentorRequestNotFound
}

func (f *fakeMentorRequestStore) GetPendingRequestForTeam(ctx context.Context, teamID int64) (*models.MentorRequest, error) {
	for _, req := range f.requests {
		if req.TeamID == teamID && req.Status == models.RequestPending {
			return req, nil
		}
	}
	return nil, apperrors.ErrMentorRequestNotFound
}

func (f *fakeMentorRequestStore) HasPendingForTeam(ctx context.Context, teamID int64) (bool, error) {
	_, err := f.GetPendingRequestForTeam(ctx, teamID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeMentorRequestStore) TransitionStatus(ctx context.Context, requestID int64, next models.RequestStatus) error {
	req, ok := f.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return apperrors.ErrInvalidState
	}
	req.Status = next
	return nil
}

func (f *fakeMentorRequestStore) TransitionStatusTx(ctx context.Context, q repositories.Querier, requestID int64, next models.RequestStatus) error {
	return f.TransitionStatus(ctx, requestID, next)
}

func (f *fakeMentorRequestStore) DeletePendingRequest(ctx context.Context, requestID int64) error {
	req, ok := f.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return apperrors.ErrInvalidState
	}
	delete(f.requests, requestID)
	return nil
}

func (f *fakeMentorRequestStore) ListRequestsForMentor(ctx context.Context, mentorID int64, status models.RequestStatus) ([]*models.MentorRequest, error) {
	var result []*models.MentorRequest
	for _, req := range f.requests {
		if req.MentorID != mentorID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

type fakeProjectStore struct {
	projects map[int64]*models.Project
	nextID   int64
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[int64]*models.Project), nextID: 1}
}

func (f *fakeProjectStore) CreateProject(ctx context.Context, p *models.Project) error {
	for _, existing := range f.projects {
		if existing.TeamID == p.TeamID && existing.Phase == p.Phase &&
			existing.ApprovedStatus != models.ProjectRejected {
			return apperrors.ErrDuplicateProject
		}
	}
	p.ID = f.nextID
	f.nextID++
	p.ApprovedStatus = models.ProjectPending
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Team = nil
	f.projects[p.ID] = &stored
	return nil
}

func (f *fakeProjectStore) GetProjectByID(ctx context.Context, projectID int64) (*models.Project, error) {
	if p, ok := f.projects[projectID]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProjectNotFound
}

func (f *fakeProjectStore) HasActiveForTeamPhase(ctx context.Context, teamID int64, phase models.ProjectPhase) (bool, error) {
	for _, p := range f.projects {
		if p.TeamID == teamID && p.Phase == phase && p.ApprovedStatus != models.ProjectRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectStore) TransitionStatus(ctx context.Context, projectID int64, next models.ApprovalStatus) error {
	p, ok := f.projects[projectID]
	if !ok || p.ApprovedStatus != models.ProjectPending {
		return apperrors.ErrInvalidState
	}
	p.ApprovedStatus = next
	return nil
}

func (f *fakeProjectStore) SetDocumentURL(ctx context.Context, projectID int64, doc models.DocumentType, url string) error {
	p, ok := f.projects[projectID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	value := url
	*p.DocumentURL(doc) = &value
	return nil
}

func (f *fakeProjectStore) ClearDocumentURLs(ctx context.Context, projectID int64, docs []models.DocumentType) error {
	p, ok := f.projects[projectID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	for _, doc := range docs {
		*p.DocumentURL(doc) = nil
	}
	return nil
}

func (f *fakeProjectStore) DeleteProject(ctx context.Context, projectID int64) error {
	if _, ok := f.projects[projectID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	delete(f.projects, projectID)
	return nil
}

func (f *fakeProjectStore) DeletePendingProject(ctx context.Context, projectID int64) error {
	p, ok := f.projects[projectID]
	if !ok || p.ApprovedStatus != models.ProjectPending {
		return apperrors.ErrInvalidState
	}
	delete(f.projects, projectID)
	return nil
}

func (f *fakeProjectStore) ListProjectsByTeam(ctx context.Context, teamID int64) ([]*models.Project, error) {
	var result []*models.Project
	for _, p := range f.projects {
		if p.TeamID == teamID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeProjectStore) ListAllProjects(ctx context.Context, phase models.ProjectPhase) ([]*models.Project, error) {
	var result []*models.Project
	for _, p := range f.projects {
		if phase == "" || p.Phase == phase {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeProjectStore) ListPendingForMentor(ctx context.Context, mentorID int64) ([]*models.Project, error) {
	// The fake has no team join; tests attach mentors through the team store
	// and call this only after wiring both.
	var result []*models.Project
	for _, p := range f.projects {
		if p.ApprovedStatus == models.ProjectPending {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
