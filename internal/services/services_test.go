package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/database/dbtest"
	"brightscope/internal/domain"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/payments"
	"brightscope/internal/tokenstore"
	"brightscope/internal/util"
)

const testSecret = "test-secret-key-0123456789abcdef0123456789"

type captureMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) Enabled() bool { return true }

func (m *captureMailer) messages() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.sent...)
}

type fakeGateway struct {
	mu        sync.Mutex
	session   *payments.Session
	createErr error
	result    *payments.Result
	queryErr  error
	queries   int
}

func (g *fakeGateway) CreateSession(_ context.Context, req payments.SessionRequest) (*payments.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.session, nil
}

func (g *fakeGateway) Query(_ context.Context, tranRef string) (*payments.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries++
	if g.queryErr != nil {
		return nil, g.queryErr
	}
	r := *g.result
	r.TranRef = tranRef
	return &r, nil
}

func (g *fakeGateway) setResult(r *payments.Result, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.result, g.queryErr = r, err
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.SecretKey = testSecret
	cfg.Frontend.URL = "https://brightscope.test"
	cfg.Frontend.PaymentSuccessURL = "https://brightscope.test/payment/success"
	cfg.Frontend.PaymentFailureURL = "https://brightscope.test/payment/failure"
	return cfg
}

type authFixture struct {
	db     *gorm.DB
	svc    *AuthService
	tokens *util.TokenManager
	mailer *captureMailer
	events *events.Recorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := dbtest.OpenTest(t)
	cfg := testConfig()
	tokens := util.NewTokenManager(cfg.Auth, nil)
	mailer := &captureMailer{}
	rec := &events.Recorder{}
	svc := NewAuthService(db, tokens, tokenstore.NewGormBlacklist(db), mailer, rec, cfg, zerolog.Nop())
	return &authFixture{db: db, svc: svc, tokens: tokens, mailer: mailer, events: rec}
}

type catalogFixture struct {
	service      domain.Service
	other        domain.Service
	pkg          domain.Package
	otherPkg     domain.Package
	inactivePkg  domain.Package
	addons       []domain.Addon
	inactiveAddn domain.Addon
	category     domain.AddonCategory
}

func seedCatalog(t *testing.T, db *gorm.DB) *catalogFixture {
	t.Helper()
	f := &catalogFixture{}
	startPrice := 199

	f.service = domain.Service{
		Name: "Home Cleaning", NameAr: "تنظيف المنازل", ServiceType: domain.ServiceHomeCleaning,
		Description: "Regular home cleaning", StartPrice: &startPrice, Icon: "fa-home", IsActive: true,
		HeroTitle: "Sparkling homes",
	}
	require.NoError(t, db.Create(&f.service).Error)
	f.other = domain.Service{
		Name: "Pest Control", ServiceType: domain.ServicePestControl, Description: "Pests gone", IsActive: true,
	}
	require.NoError(t, db.Create(&f.other).Error)
	hidden := domain.Service{Name: "Retired", ServiceType: domain.ServiceDeepCleaning, Description: "Old", IsActive: false}
	require.NoError(t, db.Create(&hidden).Error)

	f.pkg = domain.Package{
		ServiceID: f.service.ID, Name: "Studio", NameAr: "استوديو", PackageType: domain.PackageStudio,
		Price: decimal.RequireFromString("100.50"), IsActive: true, Order: 1,
	}
	require.NoError(t, db.Create(&f.pkg).Error)
	f.inactivePkg = domain.Package{
		ServiceID: f.service.ID, Name: "Legacy", PackageType: domain.PackageVilla,
		Price: decimal.RequireFromString("999"), IsActive: false, Order: 0,
	}
	require.NoError(t, db.Create(&f.inactivePkg).Error)
	f.otherPkg = domain.Package{
		ServiceID: f.other.ID, Name: "Villa", PackageType: domain.PackageVilla,
		Price: decimal.RequireFromString("300"), IsActive: true,
	}
	require.NoError(t, db.Create(&f.otherPkg).Error)

	f.category = domain.AddonCategory{Name: "Extras", NameAr: "إضافات", IsActive: true}
	require.NoError(t, db.Create(&f.category).Error)

	for i, price := range []string{"20", "30"} {
		a := domain.Addon{
			ServiceID: f.service.ID, CategoryID: &f.category.ID, Name: []string{"Fridge", "Oven"}[i],
			Price: decimal.RequireFromString(price), IsActive: true, Order: i + 1,
		}
		require.NoError(t, db.Create(&a).Error)
		f.addons = append(f.addons, a)
	}
	f.inactiveAddn = domain.Addon{
		ServiceID: f.service.ID, Name: "Balcony", Price: decimal.RequireFromString("50"), IsActive: false,
	}
	require.NoError(t, db.Create(&f.inactiveAddn).Error)

	require.NoError(t, db.Create(&domain.ServiceFeature{ServiceID: f.service.ID, Name: "Second", Order: 2}).Error)
	require.NoError(t, db.Create(&domain.ServiceFeature{ServiceID: f.service.ID, Name: "First", NameAr: "الأول", Order: 1}).Error)
	require.NoError(t, db.Create(&domain.ServiceContent{ServiceID: f.service.ID, Name: "Eco products", Order: 1}).Error)
	require.NoError(t, db.Create(&domain.ServiceRating{ServiceID: f.service.ID, Name: "5000+", Description: "Happy customers", Order: 1}).Error)
	return f
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
