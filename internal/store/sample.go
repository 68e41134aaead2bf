package store

import "github.com/mesh-intelligence/spectro/pkg/types"

// samplePigments is the fixed offline catalog.
var samplePigments = []types.Pigment{
	{
		ID:          1,
		Name:        "Ультрамарин",
		Brief:       "Синий пигмент природного происхождения",
		Description: "Ультрамарин - это синий пигмент, получаемый из минерала лазурита. Используется в живописи с древних времен.",
		Color:       "blue",
		Specs:       "Химическая формула: Na8-10Al6Si6O24S2-4",
		ImageKey:    "ultramarine.jpg",
		CreatedAt:   "2024-01-15T10:30:00Z",
	},
	{
		ID:          2,
		Name:        "Киноварь",
		Brief:       "Красный пигмент на основе ртути",
		Description: "Киноварь - ярко-красный пигмент, получаемый из сульфида ртути. Один из самых древних красных пигментов.",
		Color:       "red",
		Specs:       "Химическая формула: HgS",
		CreatedAt:   "2024-01-16T14:20:00Z",
	},
	{
		ID:          3,
		Name:        "Охра",
		Brief:       "Желто-коричневый природный пигмент",
		Description: "Охра - природный пигмент желто-коричневого цвета, состоящий из оксида железа и глины.",
		Color:       "yellow",
		Specs:       "Состав: Fe2O3 + глина",
		ImageKey:    "ochre.jpg",
		CreatedAt:   "2024-01-17T09:15:00Z",
	},
	{
		ID:          4,
		Name:        "Уголь",
		Brief:       "Черный пигмент из обожженной древесины",
		Description: "Уголь - черный пигмент, получаемый путем обжига древесины. Используется для создания теней и контуров.",
		Color:       "black",
		Specs:       "Состав: углерод (C)",
		CreatedAt:   "2024-01-18T16:45:00Z",
	},
	{
		ID:          5,
		Name:        "Белая глина",
		Brief:       "Белый пигмент природного происхождения",
		Description: "Белая глина - природный белый пигмент, состоящий из каолинита. Используется для осветления других цветов.",
		Color:       "white",
		Specs:       "Состав: Al2Si2O5(OH)4",
		ImageKey:    "white_clay.jpg",
		CreatedAt:   "2024-01-19T11:30:00Z",
	},
}
