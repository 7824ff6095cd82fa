package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB 打开一个内存SQLite数据库并迁移全部模型。
// TranslateError 保证唯一索引冲突被翻译成 gorm.ErrDuplicatedKey，
// 与生产环境的MySQL驱动行为一致。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// 内存库每个连接各自独立，限制连接池为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Resident{},
		&models.SecurityGuard{},
		&models.Visitor{},
		&models.DeliveryRequest{},
		&models.Vehicle{},
		&models.VehicleMovement{},
	))
	return db
}

// newTestConfig 构造测试配置，证据目录指向临时目录
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		EvidenceDir:          t.TempDir(),
		JWTSecretKey:         "test-secret",
		DefaultAdminPassword: "admin123",
	}
}

// stubNotifier 记录发出的通知，便于断言通知路径
type stubNotifier struct {
	mu             sync.Mutex
	residentNotes  []string
	guardNotes     []string
	phoneNotes     map[string][]string
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{phoneNotes: map[string][]string{}}
}

func (n *stubNotifier) Connect() error { return nil }
func (n *stubNotifier) Disconnect()    {}

func (n *stubNotifier) NotifyResident(residentID uint, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.residentNotes = append(n.residentNotes, subject)
}

func (n *stubNotifier) NotifyGuard(guardID uint, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.guardNotes = append(n.guardNotes, subject)
}

func (n *stubNotifier) NotifyVisitorPhone(phone, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.phoneNotes[phone] = append(n.phoneNotes[phone], body)
}

func (n *stubNotifier) residentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.residentNotes)
}

func (n *stubNotifier) phoneBodies(phone string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.phoneNotes[phone]
}

// stubCache 实现 InterfaceRedisService 的内存版本，
// 访客通行码缓存行为与Redis版本一致
type stubCache struct {
	mu       sync.Mutex
	visitors map[string]*models.Visitor
}

func newStubCache() *stubCache {
	return &stubCache{visitors: map[string]*models.Visitor{}}
}

func (c *stubCache) Set(key string, value interface{}, expiration time.Duration) error { return nil }
func (c *stubCache) Get(key string, dest interface{}) error                            { return errors.New("cache miss") }
func (c *stubCache) Delete(key string) error                                           { return nil }
func (c *stubCache) Ping() error                                                       { return nil }

func (c *stubCache) CacheVisitorByCode(visitor *models.Visitor, expiration time.Duration) error {
	if visitor.Code == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *visitor
	c.visitors[*visitor.Code] = &copied
	return nil
}

func (c *stubCache) GetVisitorByCode(code string) (*models.Visitor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.visitors[code]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (c *stubCache) InvalidateVisitorCode(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.visitors, code)
	return nil
}

var residentSeq int

// seedResident 插入一位居民，手机号与房号自动保持唯一
func seedResident(t *testing.T, db *gorm.DB, flatNo string) *models.Resident {
	t.Helper()
	residentSeq++
	resident := &models.Resident{
		Name:     fmt.Sprintf("Resident %d", residentSeq),
		Phone:    fmt.Sprintf("+9198765%05d", residentSeq),
		Password: "password123",
		FlatNo:   flatNo,
	}
	require.NoError(t, db.Create(resident).Error)
	return resident
}

// seedGuard 插入一位保安
func seedGuard(t *testing.T, db *gorm.DB) *models.SecurityGuard {
	t.Helper()
	residentSeq++
	guard := &models.SecurityGuard{
		Name:     fmt.Sprintf("Guard %d", residentSeq),
		Username: fmt.Sprintf("guard%d", residentSeq),
		Phone:    fmt.Sprintf("+9190000%05d", residentSeq),
		Password: "password123",
		Status:   "active",
	}
	require.NoError(t, db.Create(guard).Error)
	return guard
}
