package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"

	"github.com/cbodonnell/twentyone/pkg/api/middleware"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/wallet"
	"github.com/gorilla/mux"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

type WalletRequest struct {
	Balance int `json:"balance"`
}

type WalletResponse struct {
	WalletID string `json:"walletId"`
	Balance  int    `json:"balance"`
}

type ProfileResponse struct {
	ParticipantID string         `json:"participantId"`
	Name          string         `json:"name"`
	Stats         map[string]int `json:"stats"`
}

// requireSelfOrAuthority answers 403 unless the caller is id or the authority.
func requireSelfOrAuthority(w http.ResponseWriter, r *http.Request, id, authority string) bool {
	participantID, _ := middleware.ParticipantFromContext(r.Context())
	if participantID != id && participantID != authority {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func requireAuthority(w http.ResponseWriter, r *http.Request, authority string) bool {
	participantID, _ := middleware.ParticipantFromContext(r.Context())
	if participantID != authority {
		http.Error(w, "Only the table authority may change accounts", http.StatusForbidden)
		return false
	}
	return true
}

func HandleGetWallet(accounts wallet.Accounts, authority string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		walletID := mux.Vars(r)["walletID"]
		if !requireSelfOrAuthority(w, r, walletID, authority) {
			return
		}
		balance, err := accounts.Balance(r.Context(), walletID)
		if err != nil {
			log.Error("failed to load balance of %s: %v", walletID, err)
			http.Error(w, "Failed to load balance", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, &WalletResponse{WalletID: walletID, Balance: balance})
	}
}

// HandlePutWallet sets a wallet's balance. Only the authority may fund wallets.
func HandlePutWallet(accounts wallet.Accounts, authority string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuthority(w, r, authority) {
			return
		}
		walletID := mux.Vars(r)["walletID"]

		req := &WalletRequest{}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxActionBody)).Decode(req); err != nil {
			http.Error(w, "Failed to decode request body", http.StatusBadRequest)
			return
		}
		if req.Balance < 0 {
			http.Error(w, "Balance cannot be negative", http.StatusBadRequest)
			return
		}

		if err := accounts.Fund(r.Context(), walletID, req.Balance); err != nil {
			log.Error("failed to fund %s: %v", walletID, err)
			http.Error(w, "Failed to fund wallet", http.StatusInternalServerError)
			return
		}
		log.Info("Wallet %s set to %d gp", walletID, req.Balance)
		writeJSON(w, http.StatusOK, &WalletResponse{WalletID: walletID, Balance: req.Balance})
	}
}

func HandleGetProfile(accounts wallet.Accounts, authority string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID := mux.Vars(r)["participantID"]
		if !requireSelfOrAuthority(w, r, participantID, authority) {
			return
		}
		profile, err := accounts.Profile(r.Context(), participantID)
		if err != nil {
			log.Error("failed to load profile of %s: %v", participantID, err)
			http.Error(w, "Failed to load profile", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, &ProfileResponse{ParticipantID: participantID, Name: profile.Name, Stats: profile.Stats})
	}
}

// HandlePutProfile replaces a participant's character sheet. Only the
// authority may set names and stat modifiers.
func HandlePutProfile(accounts wallet.Accounts, authority string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuthority(w, r, authority) {
			return
		}
		participantID := mux.Vars(r)["participantID"]

		profile := wallet.Profile{}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxActionBody)).Decode(&profile); err != nil {
			http.Error(w, "Failed to decode request body", http.StatusBadRequest)
			return
		}
		if len(profile.Name) < 1 || len(profile.Name) > 16 {
			http.Error(w, "Name must be between 1 and 16 characters", http.StatusBadRequest)
			return
		}
		if !nameRegex.MatchString(profile.Name) {
			http.Error(w, "Name cannot contain special characters", http.StatusBadRequest)
			return
		}
		if err := profile.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := accounts.SetProfile(r.Context(), participantID, profile); err != nil {
			log.Error("failed to save profile of %s: %v", participantID, err)
			http.Error(w, "Failed to save profile", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, &ProfileResponse{ParticipantID: participantID, Name: profile.Name, Stats: profile.Stats})
	}
}
