package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	ListByEstablishment(ctx context.Context, establishmentID snowflake.ID) ([]PricingOption, error)
	Catalog(ctx context.Context, establishmentID snowflake.ID) ([]CatalogOption, error)
	Create(ctx context.Context, option *PricingOption) error
	Update(ctx context.Context, option *PricingOption) error
	Delete(ctx context.Context, establishmentID, optionID snowflake.ID) error
}
