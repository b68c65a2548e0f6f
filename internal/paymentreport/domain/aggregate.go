package domain

import (
	"sort"

	establishmentdomain "github.com/alpenstay/alpenstay/internal/establishment/domain"
	"github.com/alpenstay/alpenstay/internal/finance"
	"github.com/bwmarrin/snowflake"
)

// Aggregate rolls assembled booking records up into the report groups.
// Pure over its inputs; fetching and the account-fee lookup live in the
// service. Group ordering is deterministic (sorted keys).
func Aggregate(
	records []finance.Record,
	establishments map[snowflake.ID]establishmentdomain.Establishment,
) Report {
	summary := Summary{}
	byEstablishment := map[snowflake.ID]*EstablishmentGroup{}
	byMonth := map[string]*MonthGroup{}
	byType := map[string]*TypeGroup{}

	for _, record := range records {
		summary.BookingCount++
		summary.TotalAmount += record.FinalAmount
		summary.TotalAmountHT += record.AmountHT
		summary.TotalTVA += record.TVA
		summary.TotalCommission += record.PlatformFees.TotalFees
		summary.TotalOwnerAmount += record.OwnerAmount
		summary.TotalTouristTax += record.TouristTaxTotal
		summary.TotalPricingOptions += record.PricingOptionsTotal
		summary.TotalStripeFees += record.StripeFee

		group, ok := byEstablishment[record.EstablishmentID]
		if !ok {
			est := establishments[record.EstablishmentID]
			group = &EstablishmentGroup{
				EstablishmentID: record.EstablishmentID,
				Name:            est.Name,
				Slug:            est.Slug,
				Billing:         est.Billing(),
			}
			byEstablishment[record.EstablishmentID] = group
		}
		group.BookingCount++
		group.TotalAmount += record.FinalAmount
		group.TotalCommission += record.PlatformFees.TotalFees
		group.TotalOwnerAmount += record.OwnerAmount

		monthKey := record.BookingDate.Format("2006-01")
		month, ok := byMonth[monthKey]
		if !ok {
			month = &MonthGroup{Month: monthKey}
			byMonth[monthKey] = month
		}
		month.BookingCount++
		month.TotalAmount += record.FinalAmount
		month.TotalCommission += record.PlatformFees.TotalFees
		month.TotalOwnerAmount += record.OwnerAmount

		typeKey := string(record.BookingType.Normalize())
		typ, ok := byType[typeKey]
		if !ok {
			typ = &TypeGroup{BookingType: record.BookingType.Normalize()}
			byType[typeKey] = typ
		}
		typ.BookingCount++
		typ.TotalAmount += record.FinalAmount
		typ.TotalCommission += record.PlatformFees.TotalFees
	}

	return Report{
		Summary:         summary,
		ByEstablishment: sortedEstablishments(byEstablishment),
		ByMonth:         sortedMonths(byMonth),
		ByBookingType:   sortedTypes(byType),
		Bookings:        records,
	}
}

func sortedEstablishments(groups map[snowflake.ID]*EstablishmentGroup) []EstablishmentGroup {
	out := make([]EstablishmentGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func sortedMonths(groups map[string]*MonthGroup) []MonthGroup {
	out := make([]MonthGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func sortedTypes(groups map[string]*TypeGroup) []TypeGroup {
	out := make([]TypeGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingType < out[j].BookingType })
	return out
}
