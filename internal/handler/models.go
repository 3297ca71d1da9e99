package handler

import (
	"github.com/Nivhaham/FastApiBasics/internal/model"
)

// Body and response models shared by the routes.
var (
	imageModel = model.New("Image",
		model.String("url").Rules("url"),
		model.String("name"),
	)

	itemModel = model.New("Item",
		model.String("name"),
		model.String("description").Optional(),
		model.Float("price"),
		model.Float("tax").Optional(),
	)

	offerItemModel = itemModel.Extend("OfferItem",
		model.Array("tags", model.String("tag")).Default([]any{}).Set(),
		model.Array("images", model.Object("image", imageModel)).Optional(),
	)

	offerModel = model.New("Offer",
		model.String("name"),
		model.String("description").Optional(),
		model.Float("price"),
		model.Array("items", model.Object("item", offerItemModel)),
	)

	// catalogItemModel declares defaults that exclude-unset responses
	// leave out unless the stored entry sets them.
	catalogItemModel = itemModel.Extend("CatalogItem",
		model.Float("tax").Default(10.5),
		model.Array("tags", model.String("tag")).Default([]any{}),
	)

	credentialsModel = model.New("Credentials",
		model.String("username"),
		model.String("password"),
	)

	userBaseModel = model.New("UserBase",
		model.String("username"),
		model.String("email").Rules("email"),
		model.String("full_name").Optional(),
	)

	userInModel = userBaseModel.Extend("UserIn",
		model.String("password"),
	)

	userOutModel = userInModel.Omit("UserOut", "password")
)
