package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// The profiles collection holds display data keyed by the auth user id,
// looked up when an event is created.
func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_2769025244",
			"name": "profiles",
			"type": "base",
			"system": false,
			"listRule": null,
			"viewRule": "@request.auth.id != ''",
			"createRule": "@request.auth.id = id",
			"updateRule": "@request.auth.id = id",
			"deleteRule": null,
			"fields": [
				{
					"id": "text3208210256",
					"name": "id",
					"type": "text",
					"system": true,
					"required": true,
					"primaryKey": true,
					"hidden": false,
					"presentable": false,
					"autogeneratePattern": "[a-z0-9]{15}",
					"pattern": "^[a-z0-9]+$",
					"min": 15,
					"max": 15
				},
				{
					"id": "text1579384326",
					"name": "name",
					"type": "text",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": true,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "email3885137012",
					"name": "email",
					"type": "email",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"exceptDomains": null,
					"onlyDomains": null
				},
				{
					"id": "text1146066909",
					"name": "phone",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "text2325056959",
					"name": "venmo_handle",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "autodate2990389176",
					"name": "created",
					"type": "autodate",
					"system": false,
					"hidden": false,
					"presentable": false,
					"onCreate": true,
					"onUpdate": false
				},
				{
					"id": "autodate3332085495",
					"name": "updated",
					"type": "autodate",
					"system": false,
					"hidden": false,
					"presentable": false,
					"onCreate": true,
					"onUpdate": true
				}
			],
			"indexes": []
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_2769025244")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
