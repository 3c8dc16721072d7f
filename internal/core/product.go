package core

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalog entry. The store assigns the id on insert.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
}

// ProductInput carries a create payload. Validation markers are declared
// on the schema itself and checked in a single pass.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ProductPatch carries a partial update. Only non-nil fields are written;
// everything else is left untouched.
type ProductPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Stock == nil
}
