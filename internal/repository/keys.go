package repository

import "strings"

// Keyspace layout. Record keys hold JSON values; index keys hold sets or
// sorted sets of record ids.
const (
	usersIndex        = "users"
	muscleGroupsIndex = "musclegroups"
)

func userKey(id string) string { return "user:" + id }

func userEmailKey(email string) string {
	return "user:email:" + strings.ToLower(strings.TrimSpace(email))
}

func dayKey(id string) string          { return "day:" + id }
func userDaysKey(userID string) string { return "user:" + userID + ":days" }

func userDayDateKey(userID, date string) string {
	return "user:" + userID + ":day:" + date
}

func messageKey(id string) string        { return "message:" + id }
func dayMessagesKey(dayID string) string { return "day:" + dayID + ":messages" }

func workoutKey(id string) string          { return "workout:" + id }
func userWorkoutsKey(userID string) string { return "user:" + userID + ":workouts" }
func dayWorkoutsKey(dayID string) string   { return "day:" + dayID + ":workouts" }

func goalKey(id string) string          { return "goal:" + id }
func userGoalsKey(userID string) string { return "user:" + userID + ":goals" }

func achievementKey(id string) string          { return "achievement:" + id }
func userAchievementsKey(userID string) string { return "user:" + userID + ":achievements" }

func equipmentKey(id string) string         { return "equipment:" + id }
func userEquipmentKey(userID string) string { return "user:" + userID + ":equipment" }

func muscleGroupKey(id string) string      { return "musclegroup:" + id }
func chatSettingsKey(userID string) string { return "chatsettings:" + userID }

// MonthWorkoutsKey is the month bucket index maintained by the events
// consumer and read by the admin workouts listing. month is YYYY-MM.
func MonthWorkoutsKey(month string) string { return "stats:workouts:" + month }
