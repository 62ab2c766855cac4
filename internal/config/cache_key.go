package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SubjectsKey returns the cache key for a group's subject tab list.
func (r *CacheKeyStruct) SubjectsKey(groupID int) string {
	return fmt.Sprintf("group:%d:subjects", groupID)
}

// StudentGradesKey returns the cache key for one student's row in one subject sheet.
func (r *CacheKeyStruct) StudentGradesKey(groupID int, subject, studentName string) string {
	return fmt.Sprintf("group:%d:subject:%s:student:%s:grades", groupID, subject, studentName)
}

// RegistrationStateKey returns the key holding a chat's registration dialogue state.
func (r *CacheKeyStruct) RegistrationStateKey(chatID int64) string {
	return fmt.Sprintf("bot:chat:%d:registration", chatID)
}

// NotifyPassLockKey returns the lock key guarding the periodic notification pass.
func (r *CacheKeyStruct) NotifyPassLockKey() string {
	return "notify:pass_lock"
}

var CacheKey = NewCacheKeyStruct()
