package controller

import (
	"net/http"
	"sort"

	"github.com/beanstalk-farms/beanstalk-indexer/pkg/entities"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
)

type siloResponse struct {
	Farmer            string   `json:"farmer,omitempty"`
	WhitelistedTokens []string `json:"whitelistedTokens,omitempty"`
	DepositedBDV      string   `json:"depositedBdv"`
	Stalk             string   `json:"stalk"`
	PlantableStalk    string   `json:"plantableStalk"`
	Roots             string   `json:"roots"`
	GerminatingStalk  string   `json:"germinatingStalk"`
	BeanMints         string   `json:"beanMints"`
	ActiveFarmers     int32    `json:"activeFarmers,omitempty"`
}

func toSiloResponse(silo *entities.Silo) siloResponse {
	resp := siloResponse{
		Farmer:           silo.Farmer,
		DepositedBDV:     bigStr(silo.DepositedBDV),
		Stalk:            bigStr(silo.Stalk),
		PlantableStalk:   bigStr(silo.PlantableStalk),
		Roots:            bigStr(silo.Roots),
		GerminatingStalk: bigStr(silo.GerminatingStalk),
		BeanMints:        bigStr(silo.BeanMints),
		ActiveFarmers:    silo.ActiveFarmers,
	}
	for _, t := range silo.WhitelistedTokens {
		resp.WhitelistedTokens = append(resp.WhitelistedTokens, t.Hex())
	}
	return resp
}

// ProtocolSilo returns the protocol-aggregate silo row.
func (c *Controller) ProtocolSilo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSiloResponse(c.App.Store.LoadSilo(c.App.Store.Proto.Beanstalk)))
}

// SiloByAccount returns one farmer's silo row.
func (c *Controller) SiloByAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := parseAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSiloResponse(c.App.Store.LoadSilo(account)))
}

type depositResponse struct {
	Token           string `json:"token"`
	Season          uint32 `json:"season,omitempty"`
	Stem            string `json:"stem,omitempty"`
	DepositedAmount string `json:"depositedAmount"`
	DepositedBDV    string `json:"depositedBdv"`
	UpdatedAt       uint64 `json:"updatedAt"`
}

// DepositsByAccount lists a farmer's live deposit positions, ordered by token
// then index. Zero-amount positions never exist in the store.
func (c *Controller) DepositsByAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := parseAccount(w, r)
	if !ok {
		return
	}
	farmer := account.Hex()

	out := make([]depositResponse, 0)
	c.App.Store.SiloDeposits.Range(func(_ string, dep *entities.SiloDeposit) bool {
		if dep.Farmer != farmer {
			return true
		}
		resp := depositResponse{
			Token:           dep.Token.Hex(),
			Season:          dep.Season,
			DepositedAmount: bigStr(dep.DepositedAmount),
			DepositedBDV:    bigStr(dep.DepositedBDV),
			UpdatedAt:       dep.UpdatedAt,
		}
		if dep.Stem != nil {
			resp.Stem = dep.Stem.String()
		}
		out = append(out, resp)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Token != out[j].Token {
			return out[i].Token < out[j].Token
		}
		return out[i].Season < out[j].Season
	})

	writeJSON(w, http.StatusOK, out)
}

// parseAccount validates the {account} path variable.
func parseAccount(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := mux.Vars(r)["account"]
	if !common.IsHexAddress(raw) {
		writeError(w, http.StatusBadRequest, "invalid account address")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
