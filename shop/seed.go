package shop

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madkins23/mongo-prep/mdbson"
)

// Fixed tables for synthetic data.
var (
	firstNames = []string{
		"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi",
		"Ivan", "Judy", "Mallory", "Niaj", "Olivia", "Peggy", "Rupert",
		"Sybil", "Trent", "Victor", "Walter", "Wendy",
	}
	lastNames = []string{
		"Anders", "Baker", "Chen", "Diaz", "Evans", "Fischer", "Garcia",
		"Hansen", "Ito", "Jones", "Kim", "Lopez", "Moreau", "Nakamura",
		"Obrien", "Patel", "Quinn", "Rossi", "Singh", "Tanaka",
	}
	cityNames = []string{
		"Austin", "Boston", "Chicago", "Denver", "Portland",
		"Seattle", "Miami", "Phoenix", "Atlanta", "Detroit",
	}
	categorySlugs = []string{"books", "games", "garden", "kitchen", "outdoors", "tools"}
	adjectives    = []string{"Compact", "Deluxe", "Classic", "Rugged", "Sleek", "Portable"}
	nouns         = []string{"Lamp", "Kettle", "Tent", "Router", "Notebook", "Speaker"}
	reviewLines   = []string{
		"Does what it says.",
		"Would buy again.",
		"Arrived late but works.",
		"Five stars are not enough.",
		"Broke after a week.",
		"Solid value for the price.",
	}
	tagPool    = []string{"sale", "new", "eco", "import", "limited", "refurb"}
	cardBrands = []string{"visa", "mastercard", "amex"}
	bankNames  = []string{"first-national", "coastal-credit", "hometown"}
)

// seedEpoch anchors generated times so sequences are reproducible.
var seedEpoch = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// Seeder generates synthetic shop data.
// The same seed always produces the same sequence of rand-derived fields,
// only UUID-derived values (order numbers, SKU suffixes) differ between runs.
type Seeder struct {
	rand     *rand.Rand
	userN    int
	productN int
}

// NewSeeder creates a Seeder over a deterministic random sequence.
func NewSeeder(seed int64) *Seeder {
	return &Seeder{rand: rand.New(rand.NewSource(seed))}
}

// User generates a synthetic user with a unique email.
func (s *Seeder) User() *User {
	s.userN++
	first := firstNames[s.rand.Intn(len(firstNames))]
	last := lastNames[s.rand.Intn(len(lastNames))]
	return &User{
		Name:   first + " " + last,
		Email:  fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), s.userN),
		Age:    18 + s.rand.Intn(60),
		City:   cityNames[s.rand.Intn(len(cityNames))],
		Active: s.rand.Intn(4) > 0,
		Joined: s.time(),
		Tags:   s.tags(),
	}
}

// Users generates a batch of users.
func (s *Seeder) Users(count int) []*User {
	users := make([]*User, count)
	for i := 0; i < count; i++ {
		users[i] = s.User()
	}
	return users
}

// Product generates a synthetic product with a unique SKU.
func (s *Seeder) Product() *Product {
	s.productN++
	category := categorySlugs[s.rand.Intn(len(categorySlugs))]
	return &Product{
		SKU:        fmt.Sprintf("%s-%03d-%s", strings.ToUpper(category[:3]), s.productN, uuid.NewString()[:8]),
		Name:       adjectives[s.rand.Intn(len(adjectives))] + " " + nouns[s.rand.Intn(len(nouns))],
		Category:   category,
		PriceCents: int64(500 + s.rand.Intn(19500)),
		Stock:      s.rand.Intn(200),
		Tags:       s.tags(),
	}
}

// Products generates a batch of products.
func (s *Seeder) Products(count int) []*Product {
	products := make([]*Product, count)
	for i := 0; i < count; i++ {
		products[i] = s.Product()
	}
	return products
}

// Order generates a synthetic order for one of the users
// with lines drawn from the products.
func (s *Seeder) Order(users []*User, products []*Product) *Order {
	user := users[s.rand.Intn(len(users))]
	count := 1 + s.rand.Intn(3)
	items := make([]OrderItem, 0, count)
	for i := 0; i < count; i++ {
		product := products[s.rand.Intn(len(products))]
		items = append(items, OrderItem{
			SKU:       product.SKU,
			Name:      product.Name,
			UnitCents: product.PriceCents,
			Quantity:  1 + s.rand.Intn(3),
		})
	}
	order := &Order{
		Number:  uuid.NewString(),
		Email:   user.Email,
		Status:  Statuses[s.rand.Intn(len(Statuses))],
		Items:   items,
		Placed:  s.time(),
		Payment: mdbson.Wrap[PaymentMethod](s.payment()),
	}
	order.TotalCents = order.Total()
	return order
}

// Orders generates a batch of orders.
func (s *Seeder) Orders(count int, users []*User, products []*Product) []*Order {
	orders := make([]*Order, count)
	for i := 0; i < count; i++ {
		orders[i] = s.Order(users, products)
	}
	return orders
}

// Review generates a synthetic review of one of the products.
func (s *Seeder) Review(users []*User, products []*Product) *Review {
	return &Review{
		SKU:     products[s.rand.Intn(len(products))].SKU,
		Email:   users[s.rand.Intn(len(users))].Email,
		Rating:  1 + s.rand.Intn(5),
		Comment: reviewLines[s.rand.Intn(len(reviewLines))],
		Created: s.time(),
	}
}

// Reviews generates a batch of reviews.
func (s *Seeder) Reviews(count int, users []*User, products []*Product) []*Review {
	reviews := make([]*Review, count)
	for i := 0; i < count; i++ {
		reviews[i] = s.Review(users, products)
	}
	return reviews
}

// Cart generates a synthetic cart for the user
// with lines pointing at distinct products.
func (s *Seeder) Cart(user *User, products []*Product) *Cart {
	count := 1 + s.rand.Intn(3)
	if count > len(products) {
		count = len(products)
	}
	lines := make([]CartLine, 0, count)
	for _, index := range s.rand.Perm(len(products))[:count] {
		lines = append(lines, CartLine{
			Product:  mdbson.Point[*Product](products[index]),
			Quantity: 1 + s.rand.Intn(4),
		})
	}
	return &Cart{
		Email:   user.Email,
		Updated: s.time(),
		Lines:   lines,
	}
}

// Categories returns the fixed category list as storable items.
func Categories() []*Category {
	categories := make([]*Category, len(categorySlugs))
	for i, slug := range categorySlugs {
		categories[i] = &Category{
			Slug:        slug,
			Name:        strings.Title(slug),
			Description: "Everything filed under " + slug,
		}
	}
	return categories
}

func (s *Seeder) payment() PaymentMethod {
	switch s.rand.Intn(3) {
	case 0:
		return &CardPayment{
			Brand: cardBrands[s.rand.Intn(len(cardBrands))],
			Last4: fmt.Sprintf("%04d", s.rand.Intn(10000)),
		}
	case 1:
		return &BankTransfer{
			Bank:      bankNames[s.rand.Intn(len(bankNames))],
			Reference: uuid.NewString()[:13],
		}
	default:
		return &StoreCredit{Cents: int64(100 * (1 + s.rand.Intn(100)))}
	}
}

func (s *Seeder) tags() []string {
	count := s.rand.Intn(3)
	if count == 0 {
		return nil
	}
	start := s.rand.Intn(len(tagPool))
	tags := make([]string, count)
	for i := 0; i < count; i++ {
		tags[i] = tagPool[(start+i)%len(tagPool)]
	}
	return tags
}

func (s *Seeder) time() time.Time {
	return seedEpoch.Add(time.Duration(s.rand.Intn(365*24)) * time.Hour)
}
