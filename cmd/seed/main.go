// Command seed fills an empty database with demo data: an admin, vendors with
// their sellers, the attribute lists, products, customers, orders and reviews.
// Everything goes through the application services so the usual validation
// and password hashing apply.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	auditapp "github.com/storefront/backend/internal/application/audit"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	salesapp "github.com/storefront/backend/internal/application/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// demoPassword is shared by every seeded account
const demoPassword = "storefront-demo"

type options struct {
	vendors           int
	productsPerVendor int
	customers         int
	orders            int
	seed              uint64
	adminEmail        string
}

type services struct {
	users      *identityapp.UserService
	vendors    *identityapp.VendorService
	categories *catalogapp.CategoryService
	colors     *catalogapp.ColorService
	materials  *catalogapp.MaterialService
	discounts  *catalogapp.DiscountService
	products   *catalogapp.ProductService
	reviews    *catalogapp.ReviewService
	orders     *salesapp.OrderService
}

type seeder struct {
	svc    services
	faker  *gofakeit.Faker
	logger *zap.Logger
}

func main() {
	var opts options
	flag.IntVar(&opts.vendors, "vendors", 3, "Vendors to create, each with one seller account")
	flag.IntVar(&opts.productsPerVendor, "products", 15, "Products per vendor")
	flag.IntVar(&opts.customers, "customers", 20, "Customer accounts to create")
	flag.IntVar(&opts.orders, "orders", 40, "Checkouts to place")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed, 0 for a random one")
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@storefront.local", "Email of the admin account")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel("error"), time.Second))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	recorder := auditapp.NopRecorder{}
	quiet := zap.NewNop()

	s := &seeder{
		svc: services{
			users:      identityapp.NewUserService(userRepo, vendorRepo, nil, recorder, identityapp.DefaultAuthServiceConfig(), quiet),
			vendors:    identityapp.NewVendorService(vendorRepo, recorder, quiet),
			categories: catalogapp.NewCategoryService(categoryRepo, recorder, quiet),
			colors:     catalogapp.NewColorService(persistence.NewGormColorRepository(db.DB), recorder, quiet),
			materials:  catalogapp.NewMaterialService(persistence.NewGormMaterialRepository(db.DB), recorder, quiet),
			discounts:  catalogapp.NewDiscountService(discountRepo, productRepo, recorder, quiet),
			products: catalogapp.NewProductService(productRepo, categoryRepo, discountRepo, reviewRepo, recorder,
				catalogapp.DefaultImportConfig(), quiet),
			reviews: catalogapp.NewReviewService(reviewRepo, productRepo, recorder, quiet),
			orders: salesapp.NewOrderService(salesapp.OrderServiceDeps{
				Orders:    persistence.NewGormOrderRepository(db.DB),
				Products:  productRepo,
				Discounts: discountRepo,
				Vendors:   vendorRepo,
				Settings:  persistence.NewGormPaymentSettingsRepository(db.DB),
				Recorder:  recorder,
			}, quiet),
		},
		faker:  gofakeit.New(opts.seed),
		logger: log,
	}

	ctx := context.Background()
	if err := s.run(ctx, opts); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete", zap.String("password", demoPassword))
}

func (s *seeder) run(ctx context.Context, opts options) error {
	if err := s.admin(ctx, opts.adminEmail); err != nil {
		return err
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return err
	}
	colors, materials, discounts, err := s.attributes(ctx)
	if err != nil {
		return err
	}

	var products []catalogapp.ProductResponse
	for i := 0; i < opts.vendors; i++ {
		vendorProducts, err := s.vendor(ctx, opts.productsPerVendor, categories, colors, materials, discounts)
		if err != nil {
			return err
		}
		products = append(products, vendorProducts...)
	}
	if len(products) == 0 {
		s.logger.Warn("No products created, skipping orders and reviews")
		return nil
	}

	customers, err := s.customers(ctx, opts.customers)
	if err != nil {
		return err
	}
	if len(customers) == 0 {
		return nil
	}
	return s.ordersAndReviews(ctx, opts.orders, customers, products)
}

func (s *seeder) admin(ctx context.Context, email string) error {
	_, err := s.svc.users.Create(ctx, identityapp.CreateUserRequest{
		Email:    email,
		Name:     "Store Admin",
		Password: demoPassword,
		Role:     "admin",
	})
	if errors.Is(err, shared.ErrAlreadyExists) {
		s.logger.Info("Admin already exists", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("Admin created", zap.String("email", email))
	return nil
}

// categories creates a two level tree and returns the leaf ids
func (s *seeder) categories(ctx context.Context) ([]uuid.UUID, error) {
	tree := map[string][]string{
		"Living Room": {"Sofas", "Coffee Tables", "Shelving"},
		"Bedroom":     {"Beds", "Wardrobes", "Nightstands"},
		"Dining":      {"Dining Tables", "Chairs"},
		"Outdoor":     {"Garden Sets", "Loungers"},
	}
	var leaves []uuid.UUID
	order := 0
	for root, children := range tree {
		order++
		parent, err := s.svc.categories.Create(ctx, catalogapp.CreateCategoryRequest{Name: root, SortOrder: order})
		if err != nil {
			return nil, fmt.Errorf("create category %s: %w", root, err)
		}
		for i, child := range children {
			c, err := s.svc.categories.Create(ctx, catalogapp.CreateCategoryRequest{
				Name:      child,
				ParentID:  &parent.ID,
				SortOrder: i + 1,
			})
			if err != nil {
				return nil, fmt.Errorf("create category %s: %w", child, err)
			}
			leaves = append(leaves, c.ID)
		}
	}
	s.logger.Info("Categories created", zap.Int("leaves", len(leaves)))
	return leaves, nil
}

func (s *seeder) attributes(ctx context.Context) (colors, materials, discounts []uuid.UUID, err error) {
	for _, name := range []string{"Oak", "Walnut", "Charcoal", "Linen", "Sage", "Terracotta"} {
		c, err := s.svc.colors.Create(ctx, catalogapp.ColorRequest{Name: name, HexCode: s.faker.HexColor()})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create color %s: %w", name, err)
		}
		colors = append(colors, c.ID)
	}
	for _, name := range []string{"Solid wood", "Veneer", "Steel", "Cotton", "Rattan"} {
		m, err := s.svc.materials.Create(ctx, catalogapp.MaterialRequest{Name: name, Description: s.faker.Sentence(8)})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create material %s: %w", name, err)
		}
		materials = append(materials, m.ID)
	}
	for _, pct := range []int{10, 15, 25} {
		d, err := s.svc.discounts.Create(ctx, catalogapp.DiscountRequest{Percentage: pct})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create discount %d%%: %w", pct, err)
		}
		discounts = append(discounts, d.ID)
	}
	s.logger.Info("Attribute lists created",
		zap.Int("colors", len(colors)), zap.Int("materials", len(materials)), zap.Int("discounts", len(discounts)))
	return colors, materials, discounts, nil
}

// vendor creates a vendor, its seller account and its products
func (s *seeder) vendor(ctx context.Context, count int, categories, colors, materials, discounts []uuid.UUID) ([]catalogapp.ProductResponse, error) {
	company := s.faker.Company()
	v, err := s.svc.vendors.Create(ctx, identityapp.VendorRequest{Name: company, Email: s.faker.Email()})
	if err != nil {
		return nil, fmt.Errorf("create vendor %s: %w", company, err)
	}
	seller, err := s.svc.users.Create(ctx, identityapp.CreateUserRequest{
		Email:    s.faker.Email(),
		Name:     s.faker.Name(),
		Password: demoPassword,
		Role:     "seller",
		VendorID: &v.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create seller for %s: %w", company, err)
	}

	items := make([]catalogapp.CreateProductRequest, 0, count)
	for i := 0; i < count; i++ {
		item := catalogapp.CreateProductRequest{
			CategoryID:  pick(s.faker, categories),
			Name:        s.faker.ProductName(),
			SKU:         fmt.Sprintf("%s-%04d", s.faker.LetterN(3), s.faker.Number(1, 9999)),
			Description: s.faker.ProductDescription(),
			Price:       decimal.NewFromFloat(s.faker.Price(15, 1500)).Round(2),
			Stock:       s.faker.Number(0, 60),
			ColorIDs:    sample(s.faker, colors, 2),
			MaterialIDs: sample(s.faker, materials, 1),
			IsFeatured:  s.faker.Number(1, 10) == 1,
		}
		if s.faker.Number(1, 4) == 1 {
			item.DiscountID = pick(s.faker, discounts)
		}
		items = append(items, item)
	}

	result, err := s.svc.products.Import(ctx, shared.VendorScope(v.ID), catalogapp.ImportProductsRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("import products for %s: %w", company, err)
	}

	ids := make([]uuid.UUID, 0, result.Succeeded)
	for _, r := range result.Results {
		if r.ID != nil {
			ids = append(ids, *r.ID)
		}
	}
	products, err := s.svc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Vendor created",
		zap.String("vendor", v.Name),
		zap.String("seller", seller.Email),
		zap.Int("products", result.Succeeded),
		zap.Int("rejected", result.Failed),
	)
	return products, nil
}

func (s *seeder) customers(ctx context.Context, count int) ([]salesapp.Customer, error) {
	customers := make([]salesapp.Customer, 0, count)
	for i := 0; i < count; i++ {
		u, err := s.svc.users.Register(ctx, identityapp.RegisterRequest{
			Email:    s.faker.Email(),
			Name:     s.faker.Name(),
			Password: demoPassword,
		})
		if errors.Is(err, shared.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("register customer: %w", err)
		}
		customers = append(customers, salesapp.Customer{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	s.logger.Info("Customers created", zap.Int("count", len(customers)))
	return customers, nil
}

// statusPaths walk an order forward from pending
var statusPaths = [][]string{
	{},
	{"confirmed"},
	{"confirmed", "processing"},
	{"confirmed", "processing", "shipped"},
	{"confirmed", "processing", "shipped", "delivered"},
	{"cancelled"},
}

func (s *seeder) ordersAndReviews(ctx context.Context, count int, customers []salesapp.Customer, products []catalogapp.ProductResponse) error {
	placed, reviewed := 0, 0
	for i := 0; i < count; i++ {
		customer := customers[s.faker.Number(0, len(customers)-1)]
		items := make([]salesapp.CheckoutItem, 0, 3)
		for _, p := range sample(s.faker, products, s.faker.Number(1, 3)) {
			if p.Stock == 0 {
				continue
			}
			items = append(items, salesapp.CheckoutItem{ProductID: p.ID, Quantity: 1})
		}
		if len(items) == 0 {
			continue
		}

		orders, err := s.svc.orders.Checkout(ctx, customer, salesapp.CheckoutRequest{
			Items:           items,
			ShippingAddress: s.address(),
			PaymentMethod:   s.faker.RandomString([]string{"card", "cash_on_delivery", "bank_transfer"}),
		})
		if err != nil {
			// stock runs out as orders accumulate
			s.logger.Debug("Checkout skipped", zap.Error(err))
			continue
		}
		placed += len(orders)

		path := statusPaths[s.faker.Number(0, len(statusPaths)-1)]
		for _, o := range orders {
			for _, status := range path {
				if _, err := s.svc.orders.UpdateStatus(ctx, shared.AdminScope(), o.ID, salesapp.UpdateStatusRequest{Status: status}); err != nil {
					return fmt.Errorf("advance order %s to %s: %w", o.Number, status, err)
				}
			}
			if len(path) > 0 && path[len(path)-1] == "delivered" {
				for _, line := range o.Items {
					_, err := s.svc.reviews.Create(ctx, line.ProductID, customer.ID, customer.Name, catalogapp.CreateReviewRequest{
						Rating: s.faker.Number(3, 5),
						Title:  s.faker.Sentence(4),
						Body:   s.faker.Paragraph(1, 3, 12, " "),
					})
					if err == nil {
						reviewed++
					}
				}
			}
		}
	}
	s.logger.Info("Orders placed", zap.Int("orders", placed), zap.Int("reviews", reviewed))
	return nil
}

func (s *seeder) address() valueobject.Address {
	a := s.faker.Address()
	return valueobject.Address{
		Line1:      a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.Zip,
		Country:    a.Country,
		Latitude:   &a.Latitude,
		Longitude:  &a.Longitude,
	}
}

func pick[T any](f *gofakeit.Faker, from []T) *T {
	if len(from) == 0 {
		return nil
	}
	v := from[f.Number(0, len(from)-1)]
	return &v
}

// sample returns up to n distinct elements
func sample[T any](f *gofakeit.Faker, from []T, n int) []T {
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleInts(idx)
	out := make([]T, 0, n)
	for _, i := range idx[:min(n, len(idx))] {
		out = append(out, from[i])
	}
	return out
}
