package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// MaxMetadataURILength bounds metadata URIs on events and tiers.
const MaxMetadataURILength = 200

// Event is an organizer-owned ticketed occasion.
type Event struct {
	Address             Address
	Authority           Address
	MetadataURI         string
	StartTS             int64
	EndTS               int64
	TotalSupply         uint32
	AllocatedSupply     uint32
	Treasury            Address
	PlatformSplitBPS    uint16
	Canceled            bool
	CrowdfundingEnabled bool
	Campaign            Address // zero when no campaign is linked
	TicketRevenue       uint64
	CreatedAt           int64
}

// CreateEventInput carries the fields needed to create an event.
type CreateEventInput struct {
	Organizer        Address
	EventID          string
	MetadataURI      string
	StartTS          int64
	EndTS            int64
	TotalSupply      uint32
	PlatformSplitBPS uint16
	Treasury         Address
}

// NewEvent validates input and builds an event record with a derived address.
func NewEvent(input CreateEventInput, nowUnix int64) (Event, error) {
	if len(input.MetadataURI) > MaxMetadataURILength {
		return Event{}, errors.Newf(errors.CodeMetadataURITooLong, "metadata uri is %d chars, max %d", len(input.MetadataURI), MaxMetadataURILength)
	}
	if input.StartTS >= input.EndTS {
		return Event{}, errors.New(errors.CodeInvalidTimestamps, "event end must be after start")
	}
	if input.TotalSupply == 0 {
		return Event{}, errors.New(errors.CodeZeroSupply, "total supply must be greater than zero")
	}
	if input.PlatformSplitBPS > BpsDenominator {
		return Event{}, errors.New(errors.CodeInvalidPlatformSplit, "platform split must be between 0 and 10000 basis points")
	}
	return Event{
		Address:          EventAddress(input.Organizer, input.EventID),
		Authority:        input.Organizer,
		MetadataURI:      input.MetadataURI,
		StartTS:          input.StartTS,
		EndTS:            input.EndTS,
		TotalSupply:      input.TotalSupply,
		AllocatedSupply:  0,
		Treasury:         input.Treasury,
		PlatformSplitBPS: input.PlatformSplitBPS,
		TicketRevenue:    0,
		CreatedAt:        nowUnix,
	}, nil
}

// UpdateEventParams holds the optional organizer-updatable fields.
type UpdateEventParams struct {
	MetadataURI      *string
	EndTS            *int64
	PlatformSplitBPS *uint16
	Treasury         *Address
}

// ApplyUpdate mutates the organizer-updatable fields, returning the names of
// the fields that changed.
func (e *Event) ApplyUpdate(params UpdateEventParams, nowUnix int64) ([]string, error) {
	var updated []string
	if params.MetadataURI != nil {
		if len(*params.MetadataURI) > MaxMetadataURILength {
			return nil, errors.Newf(errors.CodeMetadataURITooLong, "metadata uri is %d chars, max %d", len(*params.MetadataURI), MaxMetadataURILength)
		}
		e.MetadataURI = *params.MetadataURI
		updated = append(updated, "metadata_uri")
	}
	if params.EndTS != nil {
		if *params.EndTS <= nowUnix {
			return nil, errors.New(errors.CodeEndTimestampInPast, "end timestamp must be in the future")
		}
		e.EndTS = *params.EndTS
		updated = append(updated, "end_ts")
	}
	if params.PlatformSplitBPS != nil {
		if *params.PlatformSplitBPS > BpsDenominator {
			return nil, errors.New(errors.CodeInvalidPlatformSplit, "platform split must be between 0 and 10000 basis points")
		}
		e.PlatformSplitBPS = *params.PlatformSplitBPS
		updated = append(updated, "platform_split_bps")
	}
	if params.Treasury != nil {
		e.Treasury = *params.Treasury
		updated = append(updated, "treasury")
	}
	return updated, nil
}

// AllocateSupply reserves max_supply seats for a new tier, enforcing that the
// cumulative allocation never exceeds the event total.
func (e *Event) AllocateSupply(maxSupply uint32) error {
	allocated, err := CheckedAddU32(e.AllocatedSupply, maxSupply)
	if err != nil {
		return errors.New(errors.CodeExceedsTotalSupply, "cumulative tier supply exceeds event total supply")
	}
	if allocated > e.TotalSupply {
		return errors.Newf(errors.CodeExceedsTotalSupply, "cumulative tier supply %d exceeds event total supply %d", allocated, e.TotalSupply)
	}
	e.AllocatedSupply = allocated
	return nil
}

// RecordRevenue adds a ticket sale to the cumulative revenue counter. The
// counter only grows; refunds leave it untouched.
func (e *Event) RecordRevenue(amount uint64) error {
	revenue, err := CheckedAdd(e.TicketRevenue, amount)
	if err != nil {
		return err
	}
	e.TicketRevenue = revenue
	return nil
}

// Started reports whether the event has started.
func (e *Event) Started(nowUnix int64) bool {
	return nowUnix >= e.StartTS
}

// Ended reports whether the event has ended.
func (e *Event) Ended(nowUnix int64) bool {
	return nowUnix >= e.EndTS
}

// LinkCampaign attaches a crowdfunding campaign to the event.
func (e *Event) LinkCampaign(campaign Address) {
	e.CrowdfundingEnabled = true
	e.Campaign = campaign
}

// HasCampaign reports whether a campaign is linked.
func (e *Event) HasCampaign() bool {
	return !e.Campaign.IsZero()
}
