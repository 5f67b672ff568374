// Package recipes talks to the Spoonacular recipe API and provides the bundled
// mock catalog used when no API key is configured.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"mealprep"
)

const DefaultBaseURL = "https://api.spoonacular.com"

// DefaultRandomCount is used when Random is asked for zero or fewer recipes.
const DefaultRandomCount = 6

type Client struct {
	baseURL    string
	httpClient mealprep.HTTPClient
	log        *slog.Logger

	mu     sync.RWMutex
	apiKey string
}

var _ mealprep.RecipeProvider = (*Client)(nil)

type ClientOpts struct {
	BaseURL    string
	APIKey     string
	HTTPClient mealprep.HTTPClient
	Logger     *slog.Logger
}

func NewClient(opts ClientOpts) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
		apiKey:     opts.APIKey,
	}
}

// SetAPIKey replaces the key. It is not validated until the next request.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

func (c *Client) HasAPIKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

type searchResponse struct {
	Results      []mealprep.Recipe `json:"results"`
	Offset       int               `json:"offset"`
	Number       int               `json:"number"`
	TotalResults int               `json:"totalResults"`
}

// Search runs a complex search with recipe information, ingredients and
// nutrition filled in.
func (c *Client) Search(ctx context.Context, params mealprep.SearchParams) ([]mealprep.Recipe, error) {
	q := searchQuery(params)
	q.Set("addRecipeInformation", "true")
	q.Set("fillIngredients", "true")
	q.Set("addRecipeNutrition", "true")

	var resp searchResponse
	if err := c.get(ctx, "/recipes/complexSearch", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Random returns count random recipes, optionally restricted to tags.
func (c *Client) Random(ctx context.Context, count int, tags string) ([]mealprep.Recipe, error) {
	if count <= 0 {
		count = DefaultRandomCount
	}
	q := url.Values{}
	q.Set("number", strconv.Itoa(count))
	if tags != "" {
		q.Set("tags", tags)
	}

	var resp struct {
		Recipes []mealprep.Recipe `json:"recipes"`
	}
	if err := c.get(ctx, "/recipes/random", q, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

func (c *Client) ByID(ctx context.Context, id int) (mealprep.Recipe, error) {
	q := url.Values{}
	q.Set("includeNutrition", "true")

	var r mealprep.Recipe
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), q, &r); err != nil {
		return mealprep.Recipe{}, err
	}
	return r, nil
}

// ByIngredients finds recipes that use the given ingredients, maximising the
// ones already on hand.
func (c *Client) ByIngredients(ctx context.Context, ingredients []string, number int) ([]mealprep.Recipe, error) {
	if number <= 0 {
		number = 10
	}
	q := url.Values{}
	q.Set("ingredients", strings.Join(ingredients, ","))
	q.Set("number", strconv.Itoa(number))
	q.Set("ranking", "2")
	q.Set("ignorePantry", "true")

	var out []mealprep.Recipe
	if err := c.get(ctx, "/recipes/findByIngredients", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MockRecipes() []mealprep.Recipe {
	return MockRecipes()
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	c.mu.RLock()
	key := c.apiKey
	c.mu.RUnlock()
	if key == "" {
		return ErrUnauthenticated
	}

	q.Set("apiKey", key)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("RECIPES: Sending request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredential
	case resp.StatusCode == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RequestFailedError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return nil
}

func searchQuery(p mealprep.SearchParams) url.Values {
	q := url.Values{}
	str := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	num := func(k string, v int) {
		if v != 0 {
			q.Set(k, strconv.Itoa(v))
		}
	}

	str("query", p.Query)
	str("diet", p.Diet)
	str("intolerances", p.Intolerances)
	str("includeIngredients", p.IncludeIngredients)
	str("excludeIngredients", p.ExcludeIngredients)
	str("type", p.Type)
	str("cuisine", p.Cuisine)
	num("maxReadyTime", p.MaxReadyTime)
	num("minCalories", p.MinCalories)
	num("maxCalories", p.MaxCalories)
	num("minProtein", p.MinProtein)
	if p.MaxPrice != 0 {
		q.Set("maxPrice", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	num("number", p.Number)
	num("offset", p.Offset)
	str("sort", p.Sort)
	str("sortDirection", p.SortDirection)
	return q
}
