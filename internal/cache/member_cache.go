package cache

import (
	"fmt"
	"time"

	"github.com/ethanx94/chatty/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// MemberListTTL keeps member lists short-lived: the fan-out tolerates a
// slightly stale list, membership writes invalidate eagerly anyway.
const MemberListTTL = 2 * time.Minute

// MemberCache caches group member lists for the notification fan-out.
// All methods are nil-safe so the service layer can run without Redis.
type MemberCache struct {
	redis *RedisCache
}

func NewMemberCache(redis *RedisCache) *MemberCache {
	return &MemberCache{redis: redis}
}

func memberKey(groupID uint) string {
	return fmt.Sprintf("group:%d:members", groupID)
}

// GetMembers retrieves the cached member list for a group
func (mc *MemberCache) GetMembers(groupID uint) ([]models.User, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(memberKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var members []models.User
	if err := msgpack.Unmarshal(data, &members); err != nil {
		return nil, false
	}
	return members, true
}

// SetMembers caches the member list for a group
func (mc *MemberCache) SetMembers(groupID uint, members []models.User) {
	if mc == nil || mc.redis == nil {
		return
	}
	data, err := msgpack.Marshal(members)
	if err != nil {
		return
	}
	_ = mc.redis.Set(memberKey(groupID), data, MemberListTTL)
}

// Invalidate drops the cached member list after a membership change
func (mc *MemberCache) Invalidate(groupID uint) {
	if mc == nil || mc.redis == nil {
		return
	}
	_ = mc.redis.Delete(memberKey(groupID))
}
