package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/harjotgill/sports-office/models"
)

const minPasswordLength = 6

// Positions an admin may assign. "pending" is the initial state and is
// never assigned explicitly.
var assignablePositions = map[string]bool{
	"1st":          true,
	"2nd":          true,
	"3rd":          true,
	"participated": true,
}

func validAssignablePosition(position string) bool {
	return assignablePositions[strings.ToLower(strings.TrimSpace(position))]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCaptainCode builds a code like "CAPT2025-381". Uniqueness is
// enforced per session by the captains table; callers retry on
// conflict.
func generateCaptainCode(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 1000)
	}
	return fmt.Sprintf("CAPT%d-%03d", now.Year(), n.Int64())
}

// appendNotification adds an entry to the profile's inbox, newest last.
func appendNotification(p *models.StudentProfile, typ models.NotificationType, message string) {
	p.Notifications = append(p.Notifications, models.Notification{
		Type:      typ,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	})
}
