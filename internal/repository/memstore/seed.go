package memstore

import (
	"time"

	"fsanano/coffee-shop/internal/model"
)

// DefaultProducts is the catalog the shop opens with. It matches the rows
// inserted by the 000002_seed_products migration.
func DefaultProducts(at time.Time) []model.Product {
	ps := []model.Product{
		{ID: "1", Name: "Strawberry Coffee", Price: 39.99, Category: "hot", Description: "Freshly brewed strawberry infused coffee.", Image: "/images/cup2-removebg-preview.png"},
		{ID: "2", Name: "Green Tea Coffee", Price: 29.99, Category: "hot", Description: "Smooth matcha green tea latte.", Image: "/images/cup3-removebg-preview.png"},
		{ID: "3", Name: "Chocolate Coffee", Price: 34.99, Category: "hot", Description: "Velvety cocoa blended coffee.", Image: "/images/cup4-removebg-preview.png"},
		{ID: "4", Name: "Caramel Sauce & Vanilla Cream", Price: 42.99, Category: "hot", Description: "Rich caramel sauce with smooth vanilla cream.", Image: "/images/caramel-sauce-and-vanilla-cream.png"},
		{ID: "5", Name: "Iced Mint Cookie Latte", Price: 36.99, Category: "iced", Description: "Refreshing iced mint cookie latte.", Image: "/images/icedmintcookielatte.png"},
		{ID: "6", Name: "Iced Caramel Mocha", Price: 44.99, Category: "iced", Description: "Chilled caramel mocha delight.", Image: "/images/iced-caramel-mocha.png"},
	}
	for i := range ps {
		ps[i].CreatedAt = at
		ps[i].UpdatedAt = at
	}
	return ps
}
