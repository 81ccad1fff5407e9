package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_1687431684",
			"name": "communities",
			"type": "base",
			"system": false,
			"listRule": "",
			"viewRule": "",
			"createRule": null,
			"updateRule": null,
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
					"id": "text1843675174",
					"name": "description",
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
					"id": "json3273459463",
					"name": "members",
					"type": "json",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSize": 2000000
				},
				{
					"id": "json2861721380",
					"name": "admins",
					"type": "json",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSize": 2000000
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
		collection, err := app.FindCollectionByNameOrId("pbc_1687431684")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
