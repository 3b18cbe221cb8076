package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fineops/internal/models"
	"fineops/internal/utils/logger"
)

var log = logger.New("config-store")

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// AppConfig mirrors the JSON application config file: users, campaigns
// and the settings of every external integration.
type AppConfig struct {
	Users        []*models.User     `json:"users"`
	Campaigns    []*models.Campaign `json:"stores"`
	Telegram     TelegramConfig     `json:"telegram"`
	Sheets       SheetsConfig       `json:"google_sheets"`
	Search       SearchConfig       `json:"image_search"`
	Branding     BrandingConfig     `json:"branding"`
	ScheduleTime TimeOfDay          `json:"schedule_time"`
	LastReport   *models.LastReport `json:"last_report,omitempty"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	GroupID  int64  `json:"group_id"`
}

type SheetsConfig struct {
	// URL is the full spreadsheet URL; the spreadsheet ID is extracted
	// from its /d/<id>/ segment.
	URL             string `json:"url"`
	WorksheetName   string `json:"worksheet_name"`
	CredentialsFile string `json:"credentials_file"`
}

type SearchConfig struct {
	APIKey string `json:"api_key"`
	CSEID  string `json:"cse_id"`
}

type BrandingConfig struct {
	LeftLogoPath  string `json:"left_logo_path"`
	RightLogoPath string `json:"right_logo_path"`
	FontPath      string `json:"font_path"`
	FontBoldPath  string `json:"font_bold_path"`
	CompanyLeft   string `json:"company_left"`
	CompanyRight  string `json:"company_right"`
}

// Store owns the application config file. All reads and mutations go
// through it; mutations are serialized by a single writer lock and the
// file is rewritten atomically (temp file + rename).
type Store struct {
	mu   sync.RWMutex
	path string
	app  *AppConfig

	users     map[string]*models.User
	campaigns map[int64]*models.Campaign
}

// Open reads the config file at path and indexes users and campaigns.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	app := &AppConfig{}
	if err := json.Unmarshal(data, app); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	s := &Store{
		path:      path,
		app:       app,
		users:     make(map[string]*models.User),
		campaigns: make(map[int64]*models.Campaign),
	}
	for _, u := range app.Users {
		s.users[u.Username] = u
	}
	for _, c := range app.Campaigns {
		s.campaigns[c.ID] = c
	}

	log.Info("loaded config: %d users, %d campaigns", len(app.Users), len(app.Campaigns))
	return s, nil
}

// User returns a copy of the named user.
func (s *Store) User(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// Campaign returns a copy of the campaign with the given id.
func (s *Store) Campaign(id int64) (models.Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return models.Campaign{}, false
	}
	return *c, true
}

// Campaigns returns all campaigns in config-file order.
func (s *Store) Campaigns() []models.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Campaign, 0, len(s.app.Campaigns))
	for _, c := range s.app.Campaigns {
		out = append(out, *c)
	}
	return out
}

// Stats returns the per-user admin statistics in config-file order.
func (s *Store) Stats() []models.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserStats, 0, len(s.app.Users))
	for _, u := range s.app.Users {
		campaigns := u.AssignedCampaigns
		if campaigns == nil {
			campaigns = []int64{}
		}
		out = append(out, models.UserStats{
			Username:          u.Username,
			AssignedCampaigns: campaigns,
			ProcessedOrders:   u.ProcessedOrders,
			Balance:           u.Balance,
		})
	}
	return out
}

// CreateUser adds a new user and persists the config file.
func (s *Store) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return ErrUserExists
	}
	stored := u
	s.users[u.Username] = &stored
	s.app.Users = append(s.app.Users, &stored)
	return s.persist()
}

// AssignCampaign adds campaignID to the user's assignment set. Adding
// an already-assigned campaign is a no-op that still succeeds.
func (s *Store) AssignCampaign(username string, campaignID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	for _, id := range u.AssignedCampaigns {
		if id == campaignID {
			return nil
		}
	}
	u.AssignedCampaigns = append(u.AssignedCampaigns, campaignID)
	return s.persist()
}

// AddProcessedOrders bumps the user's processed-orders counter by n.
func (s *Store) AddProcessedOrders(username string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	u.ProcessedOrders += n
	return s.persist()
}

// SetLastReport records the last decision batch marker and persists.
func (s *Store) SetLastReport(lr models.LastReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app.LastReport = &lr
	return s.persist()
}

func (s *Store) Telegram() TelegramConfig { s.mu.RLock(); defer s.mu.RUnlock(); return s.app.Telegram }
func (s *Store) Sheets() SheetsConfig     { s.mu.RLock(); defer s.mu.RUnlock(); return s.app.Sheets }
func (s *Store) Search() SearchConfig     { s.mu.RLock(); defer s.mu.RUnlock(); return s.app.Search }
func (s *Store) Branding() BrandingConfig { s.mu.RLock(); defer s.mu.RUnlock(); return s.app.Branding }
func (s *Store) ScheduleTime() TimeOfDay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app.ScheduleTime
}
func (s *Store) LastReport() *models.LastReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.app.LastReport == nil {
		return nil
	}
	lr := *s.app.LastReport
	return &lr
}

// persist rewrites the config file atomically. Callers must hold the
// write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.app, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
