package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"league-piper/internal/ddragon"
	"league-piper/internal/riot"
)

// FavoriteChampion is the player's highest-mastery champion and its icon
type FavoriteChampion struct {
	ChampionID     int              `json:"championId"`
	ChampionPoints int              `json:"championPoints"`
	Champion       ddragon.Champion `json:"champion"`
	CatalogVersion string           `json:"catalogVersion"`
	IconVersion    string           `json:"iconVersion"`
	Icon           []byte           `json:"-"`
	Image          image.Image      `json:"-"`
}

// FavoriteChampion resolves the top mastery entry to a champion and fetches its
// icon. The mastery list is taken in upstream order (highest points first).
//
// The catalog comes from the live Data Dragon version while the icon is
// fetched at the reporter's pinned icon version; the two can disagree.
func (r *Reporter) FavoriteChampion(ctx context.Context, name string) (*FavoriteChampion, error) {
	account, err := r.riot.GetAccount(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", name, err)
	}

	masteries, err := r.riot.GetMasteries(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get masteries for %s: %w", name, err)
	}
	if len(masteries) == 0 {
		return nil, riot.Malformed("no champion masteries for %s", name)
	}
	top := masteries[0]

	version, err := r.assets.LatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get data dragon version: %w", err)
	}

	catalog, err := r.assets.Catalog(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get champion catalog %s: %w", version, err)
	}

	champ, ok := catalog.Lookup(top.ChampionID)
	if !ok {
		return nil, riot.Malformed("champion %d not in catalog %s", top.ChampionID, version)
	}

	icon, err := r.assets.Icon(ctx, r.iconVersion, champ.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get icon for %s: %w", champ.ID, err)
	}

	img, _, err := image.Decode(bytes.NewReader(icon))
	if err != nil {
		return nil, &riot.MalformedResponseError{What: "icon " + champ.ID, Err: err}
	}

	return &FavoriteChampion{
		ChampionID:     top.ChampionID,
		ChampionPoints: top.ChampionPoints,
		Champion:       champ,
		CatalogVersion: catalog.Version(),
		IconVersion:    r.iconVersion,
		Icon:           icon,
		Image:          img,
	}, nil
}
