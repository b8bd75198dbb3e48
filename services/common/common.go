package common

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"streakOddsEngine/models"

	"gorm.io/gorm"
)

// LogError prints the error and persists it to the error log table so admins
// can review failures without shell access.
func LogError(db *gorm.DB, scope string, err error) {
	log.Printf("[%s] %v", scope, err)

	errLog := models.ErrorLog{
		Scope:   scope,
		Message: fmt.Sprintf("%v", err),
	}
	db.Create(&errLog)
}

// ESPNWrapper issues a GET against the public ESPN API. ESPN endpoints used
// here are unauthenticated.
func ESPNWrapper(requestUrl string) (*http.Response, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest("GET", requestUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("espn request failed with status %d", resp.StatusCode)
	}
	return resp, nil
}
