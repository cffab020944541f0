package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"foreman/contexts/project-management/project-service/domain/entities"
	domainerrors "foreman/contexts/project-management/project-service/domain/errors"
	"foreman/contexts/project-management/project-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, directory, cache,
// clock and id-generator ports. It is intended for tests and local development
// wiring. The single mutex makes the duplicate-membership check and insert
// atomic, matching the uniqueness guarantee the postgres adapter gets from its
// composite unique index.
type Store struct {
	mu sync.RWMutex

	projects    map[string]entities.Project
	memberships map[string]entities.Membership // key: projectID + "/" + userID
	users       map[string]ports.AssigneeRef

	ownerCache map[string]ownerEntry
}

type ownerEntry struct {
	Owns      bool
	ExpiresAt time.Time
}

func NewStore() *Store {
	return &Store{
		projects:    make(map[string]entities.Project),
		memberships: make(map[string]entities.Membership),
		users:       make(map[string]ports.AssigneeRef),
		ownerCache:  make(map[string]ownerEntry),
	}
}

// SeedUser registers a user record in the directory. User provisioning belongs
// to the identity provider; tests and dev wiring seed records through this.
func (s *Store) SeedUser(ref ports.AssigneeRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[ref.UserID] = ref
}

func (s *Store) CreateProject(_ context.Context, project entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	return nil
}

func (s *Store) GetProject(_ context.Context, projectID string) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[projectID]
	if !ok {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *Store) ListProjects(_ context.Context, filter ports.ProjectFilter) (ports.ProjectPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]entities.Project, 0)
	for _, project := range s.projects {
		if project.TenantID != filter.TenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(project.Name), search) {
			continue
		}
		matched = append(matched, project)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Page, filter.Limit), nil
}

func paginate(items []entities.Project, page, limit int) ports.ProjectPage {
	total := int64(len(items))
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	return ports.ProjectPage{
		Items:      append([]entities.Project(nil), items[start:end]...),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && page <= totalPages+1,
	}
}

func (s *Store) UpdateProject(_ context.Context, project entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	s.projects[project.ID] = project
	return nil
}

// DeleteProject removes the project and, under the same lock, every membership
// on it. The cascade is the store's contract.
func (s *Store) DeleteProject(_ context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	delete(s.projects, projectID)
	for key, membership := range s.memberships {
		if membership.ProjectID == projectID {
			delete(s.memberships, key)
		}
	}
	return nil
}

func (s *Store) GetMembership(_ context.Context, projectID, userID string) (entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	membership, ok := s.memberships[membershipKey(projectID, userID)]
	if !ok {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	return membership, nil
}

func (s *Store) HasOwnerMembership(_ context.Context, tenantID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, membership := range s.memberships {
		if membership.UserID != userID || membership.Role != entities.RoleOwner {
			continue
		}
		if project, ok := s.projects[membership.ProjectID]; ok && project.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListMembers(_ context.Context, projectID string) ([]ports.MemberView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]ports.MemberView, 0)
	for _, membership := range s.memberships {
		if membership.ProjectID != projectID {
			continue
		}
		view := ports.MemberView{
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			Role:         membership.Role,
			CreatedAt:    membership.CreatedAt,
		}
		if user, ok := s.users[membership.UserID]; ok {
			view.Email = user.Email
		}
		members = append(members, view)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

func (s *Store) CreateMembership(_ context.Context, membership entities.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey(membership.ProjectID, membership.UserID)
	if _, exists := s.memberships[key]; exists {
		return domainerrors.ErrAlreadyAssigned
	}
	s.memberships[key] = membership
	return nil
}

func (s *Store) UpdateMembershipRole(_ context.Context, projectID, userID string, role entities.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey(projectID, userID)
	membership, ok := s.memberships[key]
	if !ok {
		return domainerrors.ErrMembershipNotFound
	}
	membership.Role = role
	s.memberships[key] = membership
	return nil
}

func (s *Store) DeleteMembership(_ context.Context, projectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey(projectID, userID)
	if _, ok := s.memberships[key]; !ok {
		return domainerrors.ErrMembershipNotFound
	}
	delete(s.memberships, key)
	return nil
}

func (s *Store) GetUserRef(_ context.Context, userID string) (ports.AssigneeRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.users[userID]
	if !ok {
		return ports.AssigneeRef{}, domainerrors.ErrUserNotFound
	}
	return ref, nil
}

func (s *Store) Get(_ context.Context, tenantID, userID string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.ownerCache[ownerKey(tenantID, userID)]
	if !ok {
		return false, false, nil
	}
	if !entry.ExpiresAt.After(time.Now()) {
		delete(s.ownerCache, ownerKey(tenantID, userID))
		return false, false, nil
	}
	return entry.Owns, true, nil
}

func (s *Store) Set(_ context.Context, tenantID, userID string, owns bool, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ownerCache[ownerKey(tenantID, userID)] = ownerEntry{
		Owns:      owns,
		ExpiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *Store) Invalidate(_ context.Context, tenantID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ownerCache, ownerKey(tenantID, userID))
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func membershipKey(projectID, userID string) string {
	return projectID + "/" + userID
}

func ownerKey(tenantID, userID string) string {
	return tenantID + "/" + userID
}
