package service

import (
	"errors"
	"sort"
	"sync"

	"github.com/ethanx94/chatty/internal/models"
	"github.com/ethanx94/chatty/internal/repository"
)

// MockUserRepository is an in-memory implementation of
// UserRepositoryInterface for testing
type MockUserRepository struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	friends map[uint]map[uint]bool
	groups  map[uint][]*models.Group
	nextID  uint

	BadgeIncrements map[uint]int
	BadgeResets     map[uint]int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:           make(map[uint]*models.User),
		friends:         make(map[uint]map[uint]bool),
		groups:          make(map[uint][]*models.Group),
		nextID:          1,
		BadgeIncrements: make(map[uint]int),
		BadgeResets:     make(map[uint]int),
	}
}

func (m *MockUserRepository) Add(user *models.User) {
	m.users[user.ID] = user
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
}

func (m *MockUserRepository) AddMembership(userID uint, group *models.Group) {
	m.groups[userID] = append(m.groups[userID], group)
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) Update(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return errors.New("record not found")
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) UpdateRegistrationID(userID uint, token *string) error {
	u, ok := m.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	u.RegistrationID = token
	return nil
}

func (m *MockUserRepository) AddFriend(userID, friendID uint) error {
	if m.friends[userID] == nil {
		m.friends[userID] = make(map[uint]bool)
	}
	if m.friends[friendID] == nil {
		m.friends[friendID] = make(map[uint]bool)
	}
	m.friends[userID][friendID] = true
	m.friends[friendID][userID] = true
	return nil
}

func (m *MockUserRepository) GetFriends(userID uint) ([]models.User, error) {
	var result []models.User
	for friendID := range m.friends[userID] {
		if u, ok := m.users[friendID]; ok {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockUserRepository) FindFriends(userID uint, friendIDs []uint) ([]models.User, error) {
	var result []models.User
	for _, id := range friendIDs {
		if m.friends[userID][id] {
			if u, ok := m.users[id]; ok {
				result = append(result, *u)
			}
		}
	}
	return result, nil
}

func (m *MockUserRepository) GetGroups(userID uint) ([]models.Group, error) {
	var result []models.Group
	for _, g := range m.groups[userID] {
		result = append(result, *g)
	}
	return result, nil
}

func (m *MockUserRepository) GetGroupsByIDs(userID uint, groupIDs []uint) ([]models.Group, error) {
	var result []models.Group
	for _, g := range m.groups[userID] {
		for _, id := range groupIDs {
			if g.ID == id {
				result = append(result, *g)
				break
			}
		}
	}
	return result, nil
}

func (m *MockUserRepository) IncrementBadge(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("record not found")
	}
	u.BadgeCount++
	m.BadgeIncrements[userID]++
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) ResetBadge(userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	u.BadgeCount = 0
	m.BadgeResets[userID]++
	return nil
}

// MockGroupRepository is an in-memory implementation of
// GroupRepositoryInterface for testing
type MockGroupRepository struct {
	groups  map[uint]*models.Group
	members map[uint]map[uint]bool
	nextID  uint

	Destroyed []uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:  make(map[uint]*models.Group),
		members: make(map[uint]map[uint]bool),
		nextID:  1,
	}
}

func (m *MockGroupRepository) Add(group *models.Group) {
	m.groups[group.ID] = group
	if group.ID >= m.nextID {
		m.nextID = group.ID + 1
	}
	for _, member := range group.Members {
		if m.members[group.ID] == nil {
			m.members[group.ID] = make(map[uint]bool)
		}
		m.members[group.ID][member.ID] = true
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.ID] = group
	m.members[group.ID] = make(map[uint]bool)
	for _, member := range group.Members {
		m.members[group.ID][member.ID] = true
	}
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockGroupRepository) FindByIDForMember(groupID, userID uint) (*models.Group, error) {
	g, ok := m.groups[groupID]
	if !ok || !m.members[groupID][userID] {
		return nil, errors.New("record not found")
	}
	return g, nil
}

func (m *MockGroupRepository) Update(groupID uint, updates map[string]interface{}) error {
	g, ok := m.groups[groupID]
	if !ok {
		return errors.New("record not found")
	}
	if name, ok := updates["name"].(string); ok {
		g.Name = name
	}
	if key, ok := updates["icon_key"].(string); ok {
		g.IconKey = key
	}
	return nil
}

func (m *MockGroupRepository) AddMembers(groupID uint, userIDs []uint) error {
	if m.members[groupID] == nil {
		m.members[groupID] = make(map[uint]bool)
	}
	for _, id := range userIDs {
		m.members[groupID][id] = true
	}
	return nil
}

func (m *MockGroupRepository) RemoveMember(groupID, userID uint) error {
	delete(m.members[groupID], userID)
	return nil
}

func (m *MockGroupRepository) RemoveAllMembers(groupID uint) error {
	m.members[groupID] = make(map[uint]bool)
	return nil
}

func (m *MockGroupRepository) GetMembers(groupID uint) ([]models.User, error) {
	g, ok := m.groups[groupID]
	if !ok {
		return nil, errors.New("record not found")
	}
	var result []models.User
	for _, member := range g.Members {
		if m.members[groupID][member.ID] {
			result = append(result, *member)
		}
	}
	return result, nil
}

func (m *MockGroupRepository) CountMembers(groupID uint) (int64, error) {
	return int64(len(m.members[groupID])), nil
}

func (m *MockGroupRepository) Destroy(groupID uint) error {
	if _, ok := m.groups[groupID]; !ok {
		return errors.New("record not found")
	}
	delete(m.groups, groupID)
	delete(m.members, groupID)
	m.Destroyed = append(m.Destroyed, groupID)
	return nil
}

// MockMessageRepository is an in-memory implementation of
// MessageRepositoryInterface for testing
type MockMessageRepository struct {
	messages map[uint]*models.Message
	nextID   uint
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockMessageRepository) groupMessages(groupID uint, filter *repository.IDFilter) []models.Message {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.GroupID != groupID {
			continue
		}
		if !filter.Matches(msg.ID) {
			continue
		}
		result = append(result, *msg)
	}
	return result
}

func (m *MockMessageRepository) FindGroupPage(groupID uint, filter *repository.IDFilter, limit int) ([]models.Message, error) {
	result := m.groupMessages(groupID, filter)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockMessageRepository) ExistsInGroup(groupID uint, filter *repository.IDFilter, ascending bool) (bool, error) {
	return len(m.groupMessages(groupID, filter)) > 0, nil
}

func (m *MockMessageRepository) FindByUser(userID uint) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			result = append(result, *msg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockMessageRepository) DeleteByGroup(groupID uint) error {
	for id, msg := range m.messages {
		if msg.GroupID == groupID {
			delete(m.messages, id)
		}
	}
	return nil
}

func (m *MockMessageRepository) CountInGroup(groupID uint) int {
	return len(m.groupMessages(groupID, nil))
}

// MockLastReadRepository is an in-memory implementation of
// LastReadRepositoryInterface for testing
type MockLastReadRepository struct {
	markers map[[2]uint]uint
}

func NewMockLastReadRepository() *MockLastReadRepository {
	return &MockLastReadRepository{markers: make(map[[2]uint]uint)}
}

func (m *MockLastReadRepository) Replace(userID, groupID, messageID uint) error {
	m.markers[[2]uint{userID, groupID}] = messageID
	return nil
}

func (m *MockLastReadRepository) Get(userID, groupID uint) (*models.LastRead, error) {
	messageID, ok := m.markers[[2]uint{userID, groupID}]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &models.LastRead{UserID: userID, GroupID: groupID, MessageID: messageID}, nil
}

func (m *MockLastReadRepository) DeleteForMember(userID, groupID uint) error {
	delete(m.markers, [2]uint{userID, groupID})
	return nil
}
