// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockdrop

import (
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/reverts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

type ProposeNewOwnerMsg struct {
	Owner     cw.Addr `json:"owner"`
	ExpiresIn uint64  `json:"expires_in"`
}

// OwnershipMsg is the ownership transfer part of both execute enums.
type OwnershipMsg struct {
	ProposeNewOwner       *ProposeNewOwnerMsg `json:"propose_new_owner,omitempty"`
	DropOwnershipProposal *struct{}           `json:"drop_ownership_proposal,omitempty"`
	ClaimOwnership        *struct{}           `json:"claim_ownership,omitempty"`
}

// RequireOwner fails unless sender owns the contract.
func RequireOwner(cfg *Config, sender cw.Addr) error {
	if sender != cfg.Owner {
		return reverts.Unauthorizedf("unauthorized")
	}
	return nil
}

// HandleOwnership runs an ownership transfer step if msg carries one.
func (e *Engine) HandleOwnership(sender cw.Addr, msg *OwnershipMsg) (*cw.Response, bool, error) {
	switch {
	case msg.ProposeNewOwner != nil:
		resp, err := e.proposeNewOwner(sender, msg.ProposeNewOwner)
		return resp, true, err
	case msg.DropOwnershipProposal != nil:
		resp, err := e.dropOwnershipProposal(sender)
		return resp, true, err
	case msg.ClaimOwnership != nil:
		resp, err := e.claimOwnership(sender)
		return resp, true, err
	}
	return nil, false, nil
}

func (e *Engine) proposeNewOwner(sender cw.Addr, msg *ProposeNewOwnerMsg) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(cfg, sender); err != nil {
		return nil, err
	}
	if _, err := e.deps.API.AddrValidate(msg.Owner.String()); err != nil {
		return nil, reverts.InvalidInputf("invalid owner: %v", err)
	}
	if msg.Owner == cfg.Owner {
		return nil, reverts.InvalidInputf("new owner cannot be the same as the current owner")
	}
	if msg.ExpiresIn > MaxProposalTTL {
		return nil, reverts.InvalidInputf("parameter expires_in cannot be higher than %d", MaxProposalTTL)
	}
	if err := ownershipItem.Save(e.deps.Storage, &OwnershipProposal{Owner: msg.Owner, TTL: e.Now() + msg.ExpiresIn}); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "propose_new_owner").AddAttribute("new_owner", msg.Owner.String()), nil
}

func (e *Engine) dropOwnershipProposal(sender cw.Addr) (*cw.Response, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(cfg, sender); err != nil {
		return nil, err
	}
	if err := ownershipItem.Remove(e.deps.Storage); err != nil {
		return nil, err
	}
	return cw.NewResponse().AddAttribute("action", "drop_ownership_proposal"), nil
}

func (e *Engine) claimOwnership(sender cw.Addr) (*cw.Response, error) {
	p, found, err := ownershipItem.May(e.deps.Storage)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFoundf("ownership proposal not found")
	}
	if sender != p.Owner {
		return nil, reverts.Unauthorizedf("unauthorized")
	}
	if e.Now() > p.TTL {
		return nil, reverts.Phasef("ownership proposal expired")
	}
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	cfg.Owner = p.Owner
	if err := e.SaveConfig(cfg); err != nil {
		return nil, err
	}
	if err := ownershipItem.Remove(e.deps.Storage); err != nil {
		return nil, err
	}
	logger.Info("ownership claimed", "variant", e.variant.Name(), "owner", p.Owner)
	return cw.NewResponse().AddAttribute("action", "claim_ownership").AddAttribute("new_owner", p.Owner.String()), nil
}
