package syncer

import (
	"strconv"

	"scoresync/internal/models"
	"scoresync/internal/provider"
	"scoresync/internal/reconcile"
)

// Mappings from store rows and provider DTOs into the comparable Record view
// consumed by the reconciliation engine. Both sides of one entity type must
// populate the same comparable fields or every pair classifies as mismatch.

func CountryRecords(rows []models.Country) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].Name,
			State:      rows[i].Code,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func CountryDTORecords(dtos []provider.CountryDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].Code,
			Name:       dtos[i].Name,
			State:      dtos[i].Code,
			Raw:        dtos[i],
		})
	}
	return out
}

func LeagueRecords(rows []models.League) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].Name,
			State:      rows[i].Type,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func LeagueDTORecords(dtos []provider.LeagueDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       dtos[i].Name,
			State:      dtos[i].Type,
			Raw:        dtos[i],
		})
	}
	return out
}

func TeamRecords(rows []models.Team) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].Name,
			State:      rows[i].Country,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func TeamDTORecords(dtos []provider.TeamDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       dtos[i].Name,
			State:      dtos[i].Country,
			Raw:        dtos[i],
		})
	}
	return out
}

func SeasonRecords(rows []models.Season) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       strconv.Itoa(rows[i].Year),
			State:      rows[i].LeagueExternalID,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func SeasonDTORecords(dtos []provider.SeasonDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       strconv.Itoa(dtos[i].Year),
			State:      dtos[i].LeagueID,
			Raw:        dtos[i],
		})
	}
	return out
}

func FixtureRecords(rows []models.Fixture) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].HomeName + " vs " + rows[i].AwayName,
			State:      rows[i].Status,
			Result:     rows[i].Result,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func FixtureDTORecords(dtos []provider.FixtureDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       dtos[i].HomeName + " vs " + dtos[i].AwayName,
			State:      dtos[i].Status,
			Result:     dtos[i].Result,
			UpdatedAt:  dtos[i].KickoffAt,
			Raw:        dtos[i],
		})
	}
	return out
}

func BookmakerRecords(rows []models.Bookmaker) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].Name,
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func BookmakerDTORecords(dtos []provider.BookmakerDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       dtos[i].Name,
			Raw:        dtos[i],
		})
	}
	return out
}

func OddsRecords(rows []models.Odds) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for i := range rows {
		out = append(out, reconcile.Record{
			ExternalID: rows[i].ExternalID,
			Name:       rows[i].Market + "/" + rows[i].Selection,
			Result:     strconv.FormatFloat(rows[i].Price, 'f', 2, 64),
			UpdatedAt:  rows[i].UpdatedAt,
			Raw:        rows[i],
		})
	}
	return out
}

func OddsDTORecords(dtos []provider.OddsDTO) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(dtos))
	for i := range dtos {
		out = append(out, reconcile.Record{
			ExternalID: dtos[i].ExternalID,
			Name:       dtos[i].Market + "/" + dtos[i].Selection,
			Result:     strconv.FormatFloat(dtos[i].Price, 'f', 2, 64),
			UpdatedAt:  dtos[i].RecordedAt,
			Raw:        dtos[i],
		})
	}
	return out
}
