package catalog

import "github.com/shopspring/decimal"

// seedProducts is the starter catalog written on first use when no
// products snapshot exists yet.
func seedProducts() []Product {
	return []Product{
		{
			ID:           1,
			Name:         "Charizard VMAX",
			Price:        dec("299.99"),
			Stock:        5,
			Description:  "Rainbow Rare Charizard VMAX from Champion's Path",
			Image:        "https://images.pokemontcg.io/swsh35/74_hires.png",
			MarketPrice:  dec("349.99"),
			MarketURL:    "https://www.tcgplayer.com/product/223194",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           2,
			Name:         "Pikachu VMAX",
			Price:        dec("89.99"),
			Stock:        12,
			Description:  "Vivid Voltage Rainbow Rare Pikachu VMAX",
			Image:        "https://images.pokemontcg.io/swsh4/188_hires.png",
			MarketPrice:  dec("95.99"),
			MarketURL:    "https://www.tcgplayer.com/product/226524",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           3,
			Name:         "Mewtwo & Mew GX",
			Price:        dec("45.99"),
			Stock:        8,
			Description:  "Unified Minds Secret Rare",
			Image:        "https://images.pokemontcg.io/sm11/222_hires.png",
			MarketPrice:  dec("52.99"),
			MarketURL:    "https://www.tcgplayer.com/product/192290",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           4,
			Name:         "Umbreon VMAX",
			Price:        dec("179.99"),
			Stock:        3,
			Description:  "Evolving Skies Alternate Art",
			Image:        "https://images.pokemontcg.io/swsh7/215_hires.png",
			MarketPrice:  dec("199.99"),
			MarketURL:    "https://www.tcgplayer.com/product/246526",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           5,
			Name:         "Rayquaza VMAX",
			Price:        dec("129.99"),
			Stock:        6,
			Description:  "Evolving Skies Alternate Art",
			Image:        "https://images.pokemontcg.io/swsh7/218_hires.png",
			MarketPrice:  dec("145.99"),
			MarketURL:    "https://www.tcgplayer.com/product/246529",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           6,
			Name:         "Lugia V",
			Price:        dec("34.99"),
			Stock:        15,
			Description:  "Silver Tempest Full Art",
			Image:        "https://images.pokemontcg.io/swsh12/186_hires.png",
			MarketPrice:  dec("39.99"),
			MarketURL:    "https://www.tcgplayer.com/product/296891",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           7,
			Name:         "Booster Box - Scarlet & Violet",
			Price:        dec("119.99"),
			Stock:        10,
			Description:  "Sealed Booster Box - 36 Packs",
			Image:        "https://images.pokemontcg.io/sv1/logo.png",
			MarketPrice:  dec("129.99"),
			MarketURL:    "https://www.tcgplayer.com/product/302156",
			MarketSource: "TCGPlayer",
		},
		{
			ID:           8,
			Name:         "Mew ex",
			Price:        dec("24.99"),
			Stock:        20,
			Description:  "151 Special Illustration Rare",
			Image:        "https://images.pokemontcg.io/sv3pt5/151_hires.png",
			MarketPrice:  dec("27.99"),
			MarketURL:    "https://www.tcgplayer.com/product/312456",
			MarketSource: "TCGPlayer",
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
