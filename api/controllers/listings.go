package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/api/responses"
	"github.com/relovedshop/reloved-backend/api/validators"
	"github.com/relovedshop/reloved-backend/internal/catalog"
	"github.com/relovedshop/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedshop/reloved-backend/pkg/errors"
	"github.com/relovedshop/reloved-backend/pkg/logger"
	"github.com/relovedshop/reloved-backend/pkg/pagination"
)

func ListListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := listingFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), catalog.ListListingsInput{
			Filters: filters,
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func GetListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing id"))
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func CreateListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body catalog.CreateListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func listingFiltersFromQuery(r *http.Request) (catalog.ListingFilters, error) {
	filters := catalog.ListingFilters{
		Brand:    validators.QueryString(r, "brand"),
		Size:     validators.QueryString(r, "size"),
		Category: validators.QueryString(r, "category"),
	}

	if raw := validators.QueryString(r, "condition"); raw != nil {
		condition, err := enums.ParseCondition(*raw)
		if err != nil {
			return catalog.ListingFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition filter")
		}
		filters.Condition = &condition
	}
	if raw := validators.QueryString(r, "sex"); raw != nil {
		sex, err := enums.ParseSex(*raw)
		if err != nil {
			return catalog.ListingFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex filter")
		}
		filters.Sex = &sex
	}

	if min, err := validators.ParseQueryInt(r, "price_min_cents", 0, 0, 100000000); err != nil {
		return catalog.ListingFilters{}, err
	} else if min > 0 {
		filters.PriceMinCents = &min
	}
	if max, err := validators.ParseQueryInt(r, "price_max_cents", 0, 0, 100000000); err != nil {
		return catalog.ListingFilters{}, err
	} else if max > 0 {
		filters.PriceMaxCents = &max
	}

	if q := validators.QueryString(r, "q"); q != nil {
		filters.Query = *q
	}
	return filters, nil
}
