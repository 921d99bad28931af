package status

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nodepulse/nodepulse/cache"
	"github.com/nodepulse/nodepulse/config"
	"github.com/nodepulse/nodepulse/derive"
	"github.com/nodepulse/nodepulse/probe"
	"github.com/nodepulse/nodepulse/types"
)

type StatusHandler struct {
	cfg    *config.Config
	logger *slog.Logger
	prober *probe.Prober
	cache  *cache.TTLCache[string, StatusResponse]
}

func NewStatusHandler(cfg *config.Config, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		cfg:    cfg,
		logger: logger.With("module", "status-handler"),
		prober: probe.New(cfg, logger),
		cache:  cache.NewTTL[string, StatusResponse](cfg.GetCacheSize(), cfg.GetCacheTTL()),
	}
}

func (h *StatusHandler) Register(router fiber.Router) {
	router.Get("/networks", h.GetNetworks)
	router.Get("/status/:network", h.GetStatus)
	router.Get("/supply/:network/:symbol", h.GetSupply)
}

// GetNetworks handles GET /v1/networks
func (h *StatusHandler) GetNetworks(c *fiber.Ctx) error {
	networks := h.cfg.GetNetworks()
	keys := make([]string, 0, len(networks))
	for key := range networks {
		keys = append(keys, key)
	}
	return c.JSON(NetworksResponse{Networks: sorted(keys)})
}

// GetStatus handles GET /v1/status/:network. The light query flag skips RPC
// latency sampling for the cheap shell variant of the poll.
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	networkKey := c.Params("network")
	network, ok := h.cfg.GetNetwork(networkKey)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown network: %s", networkKey))
	}
	light := c.QueryBool("light", false)

	cacheKey := networkKey
	if light {
		cacheKey += "|light"
	}
	resp := h.cache.GetOrFill(cacheKey, func() StatusResponse {
		cards := h.prober.PollNetwork(c.UserContext(), networkKey, network, probe.PollOptions{Light: light})
		return buildResponse(networkKey, cards)
	})

	return c.JSON(resp)
}

// GetSupply handles GET /v1/supply/:network/:symbol via the network's first
// configured explorer.
func (h *StatusHandler) GetSupply(c *fiber.Ctx) error {
	networkKey := c.Params("network")
	symbol := c.Params("symbol")
	network, ok := h.cfg.GetNetwork(networkKey)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown network: %s", networkKey))
	}
	entry, ok := firstExplorer(network)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("network %s has no explorer configured", networkKey))
	}

	supply, err := h.prober.FetchTokenSupply(c.UserContext(), entry, symbol, 0)
	if err != nil {
		h.logger.Error("GetSupply", slog.String("symbol", symbol), slog.Any("error", err))
		return fiber.NewError(fiber.StatusBadGateway, probe.SanitizeError(err))
	}

	return c.JSON(SupplyResponse{
		Network:       networkKey,
		Symbol:        symbol,
		Supply:        supply,
		SupplyDisplay: derive.GroupThousandsWhole(supply),
	})
}

// buildResponse decorates the batch with derived display metrics against the
// batch-wide maximum height.
func buildResponse(networkKey string, cards []types.CardData) StatusResponse {
	var maxHeight *int64
	for _, card := range cards {
		if card.Height != nil && (maxHeight == nil || *card.Height > *maxHeight) {
			h := *card.Height
			maxHeight = &h
		}
	}

	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		delta := derive.HeightDelta(card.Height, maxHeight)
		age := cardAge(card)
		view := CardView{
			CardData:    card,
			HeightDelta: delta,
			DeltaTone:   derive.DeltaTone(delta),
			DelayTone:   derive.DelayTone(age),
		}
		if age != nil {
			display := derive.FormatDurationSec(*age)
			view.AgeDisplay = &display
		}
		views = append(views, view)
	}

	return StatusResponse{
		Network:     networkKey,
		GeneratedAt: time.Now().UTC(),
		MaxHeight:   maxHeight,
		Cards:       views,
	}
}

func cardAge(card types.CardData) *float64 {
	switch card.Kind {
	case types.KindBlockProducer:
		return card.LastAppliedAgeSec
	case types.KindExplorer:
		return card.ExplorerBlockAgeSec
	default:
		return nil
	}
}

func firstExplorer(network config.Network) (config.ExplorerEntry, bool) {
	keys := make([]string, 0, len(network.Explorers))
	for key := range network.Explorers {
		keys = append(keys, key)
	}
	for _, key := range sorted(keys) {
		return network.Explorers[key], true
	}
	return config.ExplorerEntry{}, false
}

func sorted(keys []string) []string {
	sort.Strings(keys)
	return keys
}
