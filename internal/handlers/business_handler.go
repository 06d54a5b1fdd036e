package handlers

import (
	"errors"
	"net/http"

	"localspot/internal/config"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/search"
	"localspot/internal/services"
	"localspot/internal/utils"
	"localspot/internal/validators"
	"localspot/pkg/maps"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusinessHandler struct {
	businessService services.BusinessService
	geocoder        maps.Geocoder
	searchConfig    *config.SearchConfig
}

func NewBusinessHandler(businessService services.BusinessService, geocoder maps.Geocoder, searchConfig *config.SearchConfig) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		geocoder:        geocoder,
		searchConfig:    searchConfig,
	}
}

// SearchBusinesses handles the discovery query: filters, ranking,
// pagination and result aggregates in one call.
func (h *BusinessHandler) SearchBusinesses(c *gin.Context) {
	var request validators.BusinessSearchRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters: "+err.Error())
		return
	}

	if validationErrors := validators.ValidateBusinessSearch(&request); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors.Details())
		return
	}

	criteria := h.buildCriteria(c, &request)

	sortKey := request.Sort
	if sortKey == "" && h.searchConfig != nil {
		sortKey = h.searchConfig.DefaultSort
	}

	params := utils.NewPaginationParams(request.Page, request.Limit)
	searchReq := &services.SearchRequest{
		Criteria:   criteria,
		SortKey:    search.SortKey(sortKey),
		Pagination: params,
	}

	result, err := h.businessService.Search(c.Request.Context(), searchReq, viewerFromContext(c))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SEARCH_FAILED", "Failed to search businesses: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Businesses retrieved successfully", result.Results, &utils.Meta{
		Pagination: result.Pagination,
		Aggregates: result.Aggregates,
		Count:      len(result.Results),
	})
}

// GetBusiness retrieves a single business listing
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid business ID")
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), businessID, viewerFromContext(c))
	if err != nil {
		if errors.Is(err, interfaces.ErrBusinessNotFound) {
			utils.NotFoundResponse(c, "Business")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "BUSINESS_FETCH_FAILED", "Failed to get business: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Business retrieved successfully", business)
}

// ListBusinessReviews returns the approved reviews of a business, newest
// first, with a rating summary in the response meta.
func (h *BusinessHandler) ListBusinessReviews(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid business ID")
		return
	}

	var paging validators.PaginationRequest
	if err := c.ShouldBindQuery(&paging); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters: "+err.Error())
		return
	}
	params := utils.NewPaginationParams(paging.Page, paging.Limit)

	reviews, summary, meta, err := h.businessService.ListReviews(c.Request.Context(), businessID, params, viewerFromContext(c))
	if err != nil {
		if errors.Is(err, interfaces.ErrBusinessNotFound) {
			utils.NotFoundResponse(c, "Business")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REVIEWS_FETCH_FAILED", "Failed to list reviews: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", reviews, &utils.Meta{
		Pagination: meta,
		Aggregates: summary,
		Count:      len(reviews),
	})
}

// buildCriteria maps validated query parameters onto search criteria.
// A textual "near" location is geocoded only when explicit coordinates
// were not supplied; a geocoding failure degrades to a location-less
// search rather than failing the request.
func (h *BusinessHandler) buildCriteria(c *gin.Context, request *validators.BusinessSearchRequest) *search.Criteria {
	criteria := &search.Criteria{
		Keywords:    request.Query,
		RatingMin:   request.RatingMin,
		RatingMax:   request.RatingMax,
		PriceMin:    request.PriceMin,
		PriceMax:    request.PriceMax,
		DistanceMin: request.DistanceMin,
		DistanceMax: request.DistanceMax,
		Categories:  request.Categories,
		OpenNow:     request.OpenNow,
		Verified:    request.Verified,
		Sponsored:   request.Sponsored,
	}

	if h.searchConfig != nil {
		criteria.CategoryMatch = search.CategoryMatchMode(h.searchConfig.CategoryMatch)
	}

	if request.Latitude != nil && request.Longitude != nil {
		criteria.UserLocation = &search.Point{
			Latitude:  *request.Latitude,
			Longitude: *request.Longitude,
		}
	} else if request.Near != "" && h.geocoder != nil {
		resp, err := h.geocoder.Geocode(c.Request.Context(), request.Near)
		if err == nil {
			if result, ok := resp.First(); ok {
				criteria.UserLocation = &search.Point{
					Latitude:  result.Coordinates.Latitude,
					Longitude: result.Coordinates.Longitude,
				}
				// A textual locality implies a neighborhood-sized search
				// area unless the caller bounded it themselves.
				if criteria.DistanceMax == nil {
					radius := utils.DefaultSearchRadius
					criteria.DistanceMax = &radius
				}
			}
		}
	}

	return criteria
}

// viewerFromContext derives the acting identity from the auth middleware
// context. Missing or foreign values mean an anonymous viewer.
func viewerFromContext(c *gin.Context) *services.Viewer {
	viewer := &services.Viewer{}

	if raw, exists := c.Get("user_id"); exists {
		if userID, ok := raw.(primitive.ObjectID); ok {
			viewer.UserID = &userID
		}
	}

	if raw, exists := c.Get("user_type"); exists {
		if userType, ok := raw.(string); ok && userType == "admin" {
			viewer.IsAdmin = true
		}
	}

	return viewer
}
